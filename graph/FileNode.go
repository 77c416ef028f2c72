package graph

import (
	"os"

	"github.com/forgebuild/corebuild/internal/base"
)

// FileNode represents an existing or produced file on disk; its stamp is the
// file's modification time, in Unix nanoseconds (spec.md §4.2 "FileNode").
// FileNode never rebuilds itself -- it only ever reflects what's on disk -- so
// DoBuild simply re-stats the path, the same "stat, don't compile" behavior
// the C++ original gives plain source files.
type FileNode struct {
	BaseNode
}

func NewFileNode(name Name) *FileNode {
	return &FileNode{BaseNode: NewBaseNode(name, FILE_NODE, FLAG_IS_FILE)}
}

func (n *FileNode) Initialize(g *NodeGraph) error { return nil }

func (n *FileNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error { return nil }

func (n *FileNode) DoBuild(ctx BuildContext) BuildResult {
	info, err := os.Stat(string(n.Name()))
	if err != nil {
		base.LogWarning(LogGraph, "file %q: %v", n.Name(), err)
		n.SetStamp(0)
		return ResultFailed
	}
	n.SetStamp(Stamp(info.ModTime().UnixNano()))
	return ResultOk
}

func (n *FileNode) DoBuild2(ctx BuildContext) BuildResult { return ResultOk }

func (n *FileNode) Save(ar base.Archive) { n.saveBase(ar) }
func (n *FileNode) Load(ar base.Archive) error {
	_, _, err := n.loadBase(ar)
	return err
}
