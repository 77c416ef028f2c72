package graph

import (
	"io"
	"os"

	"github.com/forgebuild/corebuild/internal/base"
)

// CopyNode copies a single source file to a destination path. Unlike the
// ExecNode-backed variants (Object, Library, Executable) it needs no external
// tool invocation, so it implements DoBuild directly rather than spawning a
// process.
type CopyNode struct {
	BaseNode

	SourceFile string
	DestFile   string
}

func NewCopyNode(name Name, source, dest string) *CopyNode {
	return &CopyNode{
		BaseNode:   NewBaseNode(name, COPY_NODE, FLAG_IS_FILE),
		SourceFile: source,
		DestFile:   dest,
	}
}

func (n *CopyNode) Initialize(g *NodeGraph) error { return nil }

func (n *CopyNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error { return nil }

func (n *CopyNode) DoBuild(ctx BuildContext) BuildResult {
	if err := copyFile(n.SourceFile, n.DestFile); err != nil {
		base.LogError(LogGraph, "copy %q: %v", n.Name(), err)
		n.SetStamp(0)
		return ResultFailed
	}
	stamp, err := statFile(n.DestFile)
	if err != nil {
		n.SetStamp(0)
		return ResultFailed
	}
	n.SetStamp(stamp)
	return ResultOk
}

func (n *CopyNode) DoBuild2(ctx BuildContext) BuildResult { return ResultOk }

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func (n *CopyNode) Save(ar base.Archive) {
	n.saveBase(ar)
	ar.String(&n.SourceFile)
	ar.String(&n.DestFile)
}

func (n *CopyNode) Load(ar base.Archive) error {
	if _, _, err := n.loadBase(ar); err != nil {
		return err
	}
	ar.String(&n.SourceFile)
	ar.String(&n.DestFile)
	return ar.Error()
}
