package graph

import (
	"bytes"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewNodeGraph("/root/project")

	a, err := g.CreateFileNode("/root/project/a.cpp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.SetStamp(42)

	alias, err := g.CreateAliasNode("//all", []Name{a.Name()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alias.SetStamp(7)

	var buf bytes.Buffer
	if err := g.Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := NewNodeGraph("/root/project")
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	loadedA, err := loaded.FindNode(a.Name())
	if err != nil {
		t.Fatalf("expected %q to round-trip: %v", a.Name(), err)
	}
	if loadedA.Stamp() != 42 {
		t.Errorf("a.cpp stamp = %d, want 42", loadedA.Stamp())
	}

	loadedAlias, err := loaded.FindNode(alias.Name())
	if err != nil {
		t.Fatalf("expected %q to round-trip: %v", alias.Name(), err)
	}
	if loadedAlias.Stamp() != 7 {
		t.Errorf("alias stamp = %d, want 7", loadedAlias.Stamp())
	}

	deps := loadedAlias.StaticDependencies()
	if len(deps) != 1 || deps[0].Node.Name() != a.Name() {
		t.Errorf("expected alias's dependency to resolve back to %q, got %v", a.Name(), deps)
	}
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	loaded := NewNodeGraph("/root/project")
	garbage := bytes.NewReader(make([]byte, 64))
	if err := loaded.Load(garbage); err == nil {
		t.Errorf("expected schema mismatch error for garbage input")
	}
}
