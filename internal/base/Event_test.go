package base

import "testing"

func TestConcurrentEventInvokesAllSubscribers(t *testing.T) {
	var e ConcurrentEvent[int]
	var a, b int
	e.Add(func(v int) { a = v })
	e.Add(func(v int) { b = v })

	e.Invoke(42)

	if a != 42 || b != 42 {
		t.Errorf("Invoke did not reach all subscribers: a=%d b=%d", a, b)
	}
}

func TestConcurrentEventRemove(t *testing.T) {
	var e ConcurrentEvent[int]
	calls := 0
	h := e.Add(func(int) { calls++ })

	if !e.Remove(h) {
		t.Fatalf("Remove of a live handle should succeed")
	}
	if e.Remove(h) {
		t.Errorf("Remove of an already-removed handle should fail")
	}

	e.Invoke(1)
	if calls != 0 {
		t.Errorf("removed subscriber was still invoked")
	}
}

func TestConcurrentEventBound(t *testing.T) {
	var e ConcurrentEvent[int]
	if e.Bound() {
		t.Errorf("fresh event should report unbound")
	}
	e.Add(func(int) {})
	if !e.Bound() {
		t.Errorf("event with a subscriber should report bound")
	}
}
