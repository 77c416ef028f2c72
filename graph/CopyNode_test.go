package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyNodeCopiesFileAndStampsDest(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "src.txt")
	dest := filepath.Join(dir, "dest.txt")
	if err := os.WriteFile(source, []byte("payload"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	n := NewCopyNode("//copy", source, dest)
	result := n.DoBuild(nil)
	if result != ResultOk {
		t.Fatalf("DoBuild() = %v, want ResultOk", result)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("expected dest file to exist: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("dest contents = %q, want %q", got, "payload")
	}
	if !n.Stamp().Valid() {
		t.Errorf("expected a valid stamp after a successful copy")
	}
}

func TestCopyNodeMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	n := NewCopyNode("//copy-fail", filepath.Join(dir, "missing.txt"), filepath.Join(dir, "dest.txt"))

	result := n.DoBuild(nil)
	if result != ResultFailed {
		t.Fatalf("DoBuild() = %v, want ResultFailed for a missing source", result)
	}
	if n.Stamp() != 0 {
		t.Errorf("Stamp() = %d, want 0 after a failed copy", n.Stamp())
	}
}
