package graph

import (
	"context"
	"time"

	"github.com/forgebuild/corebuild/internal/base"
)

// ExecNode is the generic opaque build action backing Object, Library and
// Executable nodes alike; Copy nodes use CopyNode instead (spec.md §1 "the core treats each as an
// opaque DoBuild implementation"). The concrete compiler/linker/archiver
// invocation is out of scope for the core; ExecNode simply runs a configured
// command and restamps its output file, grounded on original_source/ExeNode.cpp
// for the "a linker step is just another command with extra inputs" shape,
// and on the teacher's utils/Process.go for the spawn wrapper it calls through
// to (internal/base/Process.go here).
type ExecNode struct {
	BaseNode

	Executable string
	Arguments  []string
	WorkingDir string
	OutputFile string

	// LibrarianMode mirrors ExeNode's IsAProxy(): it marks a librarian/linker
	// step, and its only effect is to keep the node to a single DoBuild pass
	// even when Distributable is set. The static deps' output files are not
	// added to the command line; Arguments must already name every input.
	LibrarianMode bool

	// Distributable marks a compile step that runs its own local
	// preprocessing pass before handing the actual compile off to a second,
	// distributable pass -- FASTBuild's "preprocess locally, compile
	// remotely" split (spec.md §4.2 "do_build(job) -> ... NeedSecondBuildPass";
	// original_source/ObjectNode.cpp DoBuild/DoBuild2). Never set alongside
	// LibrarianMode: a librarian/linker step always runs locally in one pass.
	Distributable        bool
	PreprocessExecutable string
	PreprocessArguments  []string
	PreprocessedFile     string
}

func NewExecNode(name Name, kind Type, exe, outputFile string, args []string) *ExecNode {
	return &ExecNode{
		BaseNode:   NewBaseNode(name, kind, FLAG_IS_FILE),
		Executable: exe,
		Arguments:  args,
		OutputFile: outputFile,
	}
}

func (n *ExecNode) Initialize(g *NodeGraph) error { return nil }

func (n *ExecNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error { return nil }

// SupportsSecondBuildPass reports whether this node's first DoBuild pass
// only preprocesses, deferring the actual compile to DoBuild2 (spec.md §4.2).
func (n *ExecNode) SupportsSecondBuildPass() bool {
	return n.Distributable && !n.LibrarianMode
}

func (n *ExecNode) DoBuild(ctx BuildContext) BuildResult {
	if n.Distributable && !n.LibrarianMode {
		return n.runStep(ctx, n.PreprocessExecutable, n.PreprocessArguments, n.PreprocessedFile)
	}
	return n.runStep(ctx, n.Executable, n.Arguments, n.OutputFile)
}

// DoBuild2 runs the real compile once the preprocess pass (DoBuild) has
// completed, only called when SupportsSecondBuildPass is true.
func (n *ExecNode) DoBuild2(ctx BuildContext) BuildResult {
	return n.runStep(ctx, n.Executable, n.Arguments, n.OutputFile)
}

// runStep spawns executable with args and, on success, restamps outputFile.
// Shared by both the single-pass path and each half of the distributable
// preprocess/compile split.
func (n *ExecNode) runStep(ctx BuildContext, executable string, args []string, outputFile string) BuildResult {
	cancel := ctx.Context()
	goCtx := context.Background()
	if cancel != nil {
		goCtx = contextFromCancel(cancel)
	}

	result, err := base.RunProcess(goCtx, executable, args, base.ProcessOptions{
		WorkingDir:    n.WorkingDir,
		CaptureOutput: true,
	})
	if err != nil {
		base.LogError(LogGraph, "%s %q: %v", n.Type(), n.Name(), err)
		n.SetStamp(0)
		return ResultFailed
	}
	if result.ExitCode != 0 {
		base.LogError(LogGraph, "%s %q: exited %d: %s", n.Type(), n.Name(), result.ExitCode, result.Output)
		n.SetStamp(0)
		return ResultFailed
	}

	stamp, err := statFile(outputFile)
	if err != nil {
		base.LogError(LogGraph, "%s %q: output %q missing after build: %v", n.Type(), n.Name(), outputFile, err)
		n.SetStamp(0)
		return ResultFailed
	}
	n.SetStamp(stamp)
	return ResultOk
}

// contextFromCancel adapts the BuildContext's minimal CancelContext back into
// a context.Context so RunProcess can use exec.CommandContext's kill-on-cancel
// behavior, without this package importing context.Context into the Node
// interface itself.
func contextFromCancel(c CancelContext) context.Context {
	return cancelAdapter{c}
}

type cancelAdapter struct{ CancelContext }

func (a cancelAdapter) Deadline() (time.Time, bool) { return time.Time{}, false }
func (a cancelAdapter) Value(key any) any           { return nil }

func (n *ExecNode) Save(ar base.Archive) {
	n.saveBase(ar)
	ar.String(&n.Executable)
	ar.StringSlice(&n.Arguments)
	ar.String(&n.WorkingDir)
	ar.String(&n.OutputFile)
	ar.Bool(&n.LibrarianMode)
	ar.Bool(&n.Distributable)
	ar.String(&n.PreprocessExecutable)
	ar.StringSlice(&n.PreprocessArguments)
	ar.String(&n.PreprocessedFile)
}

func (n *ExecNode) Load(ar base.Archive) error {
	if _, _, err := n.loadBase(ar); err != nil {
		return err
	}
	ar.String(&n.Executable)
	ar.StringSlice(&n.Arguments)
	ar.String(&n.WorkingDir)
	ar.String(&n.OutputFile)
	ar.Bool(&n.LibrarianMode)
	ar.Bool(&n.Distributable)
	ar.String(&n.PreprocessExecutable)
	ar.StringSlice(&n.PreprocessArguments)
	ar.String(&n.PreprocessedFile)
	return ar.Error()
}
