package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type fakeBuildContext struct {
	g   *NodeGraph
	ctx context.Context
}

func (f fakeBuildContext) Graph() *NodeGraph      { return f.g }
func (f fakeBuildContext) Context() CancelContext { return f.ctx }

func TestExecNodeRunsCommandAndStampsOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.txt")

	n := NewExecNode("//build-out", OBJECT_NODE, "sh", output, []string{"-c", "echo hi > " + output})

	result := n.DoBuild(fakeBuildContext{ctx: context.Background()})
	if result != ResultOk {
		t.Fatalf("DoBuild() = %v, want ResultOk", result)
	}
	if !n.Stamp().Valid() {
		t.Errorf("expected a valid stamp after a successful build")
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
}

func TestExecNodeNonZeroExitFailsAndZeroesStamp(t *testing.T) {
	n := NewExecNode("//build-fail", OBJECT_NODE, "sh", "/dev/null", []string{"-c", "exit 1"})
	n.SetStamp(99)

	result := n.DoBuild(fakeBuildContext{ctx: context.Background()})
	if result != ResultFailed {
		t.Fatalf("DoBuild() = %v, want ResultFailed", result)
	}
	if n.Stamp() != 0 {
		t.Errorf("Stamp() = %d, want 0 after a failed build", n.Stamp())
	}
}

func TestExecNodeMissingOutputFileFails(t *testing.T) {
	n := NewExecNode("//build-no-output", OBJECT_NODE, "sh", "/does/not/exist/out.o", []string{"-c", "true"})

	result := n.DoBuild(fakeBuildContext{ctx: context.Background()})
	if result != ResultFailed {
		t.Fatalf("DoBuild() = %v, want ResultFailed when the declared output never appears", result)
	}
}

func TestDistributableObjectNodeSupportsSecondBuildPass(t *testing.T) {
	n := NewDistributableObjectNode("//obj", "cc", "/tmp/out.o", nil, "cc", "/tmp/out.i", []string{"-E"})
	if !n.SupportsSecondBuildPass() {
		t.Errorf("expected a distributable, non-librarian ExecNode to support a second build pass")
	}
}

func TestExecNodeLibrarianModeNeverSupportsSecondBuildPass(t *testing.T) {
	n := NewDistributableObjectNode("//obj", "cc", "/tmp/out.o", nil, "cc", "/tmp/out.i", []string{"-E"})
	n.LibrarianMode = true
	if n.SupportsSecondBuildPass() {
		t.Errorf("librarian-mode nodes must always run in a single local pass")
	}
}

func TestDistributableObjectNodeFirstPassRunsPreprocessOnly(t *testing.T) {
	dir := t.TempDir()
	preprocessed := filepath.Join(dir, "out.i")
	object := filepath.Join(dir, "out.o")

	n := NewDistributableObjectNode(
		"//obj", "sh", object, []string{"-c", "echo object > " + object},
		"sh", preprocessed, []string{"-c", "echo preprocessed > " + preprocessed},
	)

	result := n.DoBuild(fakeBuildContext{ctx: context.Background()})
	if result != ResultOk {
		t.Fatalf("DoBuild() (preprocess pass) = %v, want ResultOk", result)
	}
	if _, err := os.Stat(preprocessed); err != nil {
		t.Errorf("expected the preprocessed file to exist after the first pass: %v", err)
	}
	if _, err := os.Stat(object); err == nil {
		t.Errorf("expected the real compile output to NOT exist after only the first pass")
	}
}

func TestDistributableObjectNodeSecondPassRunsRealCompile(t *testing.T) {
	dir := t.TempDir()
	preprocessed := filepath.Join(dir, "out.i")
	object := filepath.Join(dir, "out.o")

	n := NewDistributableObjectNode(
		"//obj", "sh", object, []string{"-c", "echo object > " + object},
		"sh", preprocessed, []string{"-c", "echo preprocessed > " + preprocessed},
	)

	if result := n.DoBuild(fakeBuildContext{ctx: context.Background()}); result != ResultOk {
		t.Fatalf("first pass failed: %v", result)
	}
	result := n.DoBuild2(fakeBuildContext{ctx: context.Background()})
	if result != ResultOk {
		t.Fatalf("DoBuild2() = %v, want ResultOk", result)
	}
	if _, err := os.Stat(object); err != nil {
		t.Errorf("expected the real compile output to exist after the second pass: %v", err)
	}
	if !n.Stamp().Valid() {
		t.Errorf("expected a valid stamp after the second pass")
	}
}
