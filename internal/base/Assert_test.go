package base

import "testing"

// These calls must be safe to make regardless of which Assert_Debug.go /
// Assert_NotDebug.go build-tag variant is compiled in: the release variant
// is a no-op, the debug variant panics only on a false predicate.
func TestAssertPassesOnTruePredicate(t *testing.T) {
	Assert(func() bool { return true })
	AssertErr(func() error { return nil })
	AssertIn(2, 1, 2, 3)
}
