package graph

import (
	"fmt"

	"github.com/forgebuild/corebuild/internal/base"
)

// DependencyListNode drives a DependencyListBuilder over a single logical
// source node, writing the result to Dest (spec.md §4.2 "DependencyListNode"),
// grounded on original_source/DependencyListNode.{h,cpp}. Note the C++
// original's GetTypeS() mistakenly returns its base NODE_ALIAS type id; this
// port does not reproduce that bug -- DependencyListNode.Type() correctly
// reports DEPENDENCY_LIST_NODE.
type DependencyListNode struct {
	BaseNode

	SourceName Name
	Dest       string
	Patterns   []string

	source Node
}

func NewDependencyListNode(name Name, source Name, dest string, patterns []string) *DependencyListNode {
	return &DependencyListNode{
		BaseNode:   NewBaseNode(name, DEPENDENCY_LIST_NODE, FLAG_NONE),
		SourceName: source,
		Dest:       dest,
		Patterns:   patterns,
	}
}

func (n *DependencyListNode) Initialize(g *NodeGraph) error {
	source, err := g.FindNode(n.SourceName)
	if err != nil {
		return fmt.Errorf("dependency list %q: %w", n.Name(), err)
	}
	n.source = source
	n.SetStaticDependencies(Dependencies{{Node: source, Weak: false}})
	return nil
}

// DoDynamicDependencies re-resolves the source node every pass, since the
// surrounding graph may have attached new dependencies to it since this node
// was constructed (spec.md §4.2 "resolves source afresh each pass").
func (n *DependencyListNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error {
	source, err := g.FindNode(n.SourceName)
	if err != nil {
		return fmt.Errorf("dependency list %q: %w", n.Name(), err)
	}
	n.source = source
	return nil
}

func (n *DependencyListNode) DoBuild(ctx BuildContext) BuildResult {
	if n.source == nil {
		base.LogError(LogGraph, "dependency list %q: source %q not resolved", n.Name(), n.SourceName)
		n.SetStamp(0)
		return ResultFailed
	}

	builder := NewDependencyListBuilder(n.Patterns)
	builder.Walk(n.source)

	if err := builder.WriteFile(n.Dest); err != nil {
		base.LogError(LogGraph, "dependency list %q: write %q: %v", n.Name(), n.Dest, err)
		n.SetStamp(0)
		return ResultFailed
	}

	info, err := statFile(n.Dest)
	if err != nil {
		n.SetStamp(0)
		return ResultFailed
	}
	n.SetStamp(info)
	return ResultOk
}

func (n *DependencyListNode) DoBuild2(ctx BuildContext) BuildResult { return ResultOk }

func (n *DependencyListNode) Save(ar base.Archive) {
	n.saveBase(ar)
	source := string(n.SourceName)
	ar.String(&source)
	ar.String(&n.Dest)
	ar.StringSlice(&n.Patterns)
}

func (n *DependencyListNode) Load(ar base.Archive) error {
	if _, _, err := n.loadBase(ar); err != nil {
		return err
	}
	var source string
	ar.String(&source)
	n.SourceName = Name(source)
	ar.String(&n.Dest)
	ar.StringSlice(&n.Patterns)
	return ar.Error()
}
