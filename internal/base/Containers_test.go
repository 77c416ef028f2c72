package base

import "testing"

func TestIndexOf(t *testing.T) {
	i, ok := IndexOf("b", "a", "b", "c")
	if !ok || i != 1 {
		t.Errorf("IndexOf(b) = (%d, %v), want (1, true)", i, ok)
	}
	if _, ok := IndexOf("z", "a", "b", "c"); ok {
		t.Errorf("IndexOf(z) should not be found")
	}
}

func TestAppendUniqPreservesOrderAndSkipsDuplicates(t *testing.T) {
	got := AppendUniq([]string{"a", "b"}, "b", "c", "a", "d")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("AppendUniq = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AppendUniq[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFnv1aIsDeterministic(t *testing.T) {
	a := Fnv1a32("object/main.cpp")
	b := Fnv1a32("object/main.cpp")
	if a != b {
		t.Errorf("Fnv1a32 not deterministic: %d != %d", a, b)
	}
	if Fnv1a32("object/main.cpp") == Fnv1a32("object/other.cpp") {
		t.Errorf("Fnv1a32 collided on distinct inputs (unlucky but suspicious)")
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	keys := SortedKeys(m, func(a, b string) bool { return a < b })
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("SortedKeys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
