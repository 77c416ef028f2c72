package graph

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/forgebuild/corebuild/internal/base"
)

// AliasNode groups other nodes under one logical name with no output file of
// its own, grounded on original_source/AliasNode.cpp. Its stamp is an xxHash64
// digest over its non-weak static dependencies' stamps, concatenated in
// dependency order as little-endian uint64s -- matching the C++ original's
// xxHash::Calc64 over the same byte layout (spec.md §4.2 "AliasNode").
type AliasNode struct {
	BaseNode
}

func NewAliasNode(name Name) *AliasNode {
	return &AliasNode{BaseNode: NewBaseNode(name, ALIAS_NODE, FLAG_TRIVIAL_BUILD)}
}

func (n *AliasNode) Initialize(g *NodeGraph) error { return nil }

func (n *AliasNode) DoDynamicDependencies(g *NodeGraph, forceClean bool) error {
	return nil // aliases have no dynamic deps of their own; they're transparent passthroughs
}

func (n *AliasNode) DoBuild(ctx BuildContext) BuildResult {
	deps := n.StaticDependencies()

	digest := xxhash.New()
	nonEmpty := false
	for _, d := range deps {
		if d.Weak {
			continue
		}
		nonEmpty = true
		stamp := d.Node.Stamp()
		if !stamp.Valid() {
			base.LogError(LogGraph, "Failed due to missing file: %s", d.Node.Name())
			n.SetStamp(0)
			return ResultFailed
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(stamp))
		_, _ = digest.Write(buf[:])
	}

	if !nonEmpty {
		// an alias with no non-weak dependencies is considered always up to
		// date, per original_source/AliasNode.cpp's empty-list special case.
		n.SetStamp(1)
		return ResultOk
	}

	n.SetStamp(Stamp(digest.Sum64()))
	return ResultOk
}

func (n *AliasNode) DoBuild2(ctx BuildContext) BuildResult { return ResultOk }

func (n *AliasNode) Save(ar base.Archive) {
	n.saveBase(ar)
}

func (n *AliasNode) Load(ar base.Archive) error {
	_, _, err := n.loadBase(ar)
	return err
}
