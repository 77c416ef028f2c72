package graph

import (
	"fmt"
	"io"

	"github.com/forgebuild/corebuild/internal/base"
)

// schemaVersion is bumped whenever a node's Save/Load layout changes. A
// mismatch against the fingerprint stored in a cache file discards the whole
// cache rather than attempting a partial upgrade (spec.md §6 "Format is
// versioned; a mismatch discards the cache"), grounded on the teacher's own
// internal/base/Fingerprint.go cache-invalidation use.
const schemaVersion = "corebuild-graph-v1"

var schemaFingerprint = base.ComputeFingerprint(schemaVersion)

func newNodeForType(kind Type) (Node, error) {
	switch kind {
	case FILE_NODE:
		return &FileNode{}, nil
	case ALIAS_NODE:
		return &AliasNode{}, nil
	case DEPENDENCY_LIST_NODE:
		return &DependencyListNode{}, nil
	case SETTINGS_NODE:
		return &SettingsNode{}, nil
	case OBJECT_NODE, LIBRARY_NODE, EXECUTABLE_NODE:
		return &ExecNode{}, nil
	case COPY_NODE:
		return &CopyNode{}, nil
	default:
		return nil, fmt.Errorf("graph: unknown node type %d", kind)
	}
}

// Save writes every node in the graph to w, preceded by a fingerprint header.
// Dependencies are persisted by name (saveBase writes static dependency names
// and weak bits) and re-resolved against the freshly loaded registry by
// Load, exactly the "serialize by name, re-resolve on load" strategy called
// out in spec.md §9 to sidestep pointer-cycle concerns.
func (g *NodeGraph) Save(w io.Writer) error {
	ar := base.NewArchiveBinaryWriter(w)

	ar.Raw(schemaFingerprint[:])

	nodes := g.AllNodes()
	count := uint32(len(nodes))
	ar.Uint32(&count)

	for _, n := range nodes {
		kind := int64(n.Type())
		ar.Int64(&kind)
		n.Save(ar)
	}

	return ar.Flush()
}

// pendingDeps records a loaded node's static-dependency names until every
// node has been constructed and can be resolved against the registry.
type pendingDeps struct {
	node  Node
	names []string
	weak  []bool
}

// Load populates g from r, replacing any existing nodes. A fingerprint
// mismatch returns an error without modifying g, signaling the caller to
// treat the cache as absent rather than attempt a partial load.
func (g *NodeGraph) Load(r io.Reader) error {
	ar := base.NewArchiveBinaryReader(r)

	var gotFingerprint base.Fingerprint
	ar.Raw(gotFingerprint[:])
	if ar.Error() != nil {
		return ar.Error()
	}
	if !gotFingerprint.Equals(schemaFingerprint) {
		return fmt.Errorf("graph: cache schema mismatch (got %s, want %s)", gotFingerprint, schemaFingerprint)
	}

	var count uint32
	ar.Uint32(&count)

	loaded := make(map[Name]Node, count)
	var pending []pendingDeps

	for i := uint32(0); i < count; i++ {
		var kindRaw int64
		ar.Int64(&kindRaw)
		n, err := newNodeForType(Type(kindRaw))
		if err != nil {
			return err
		}
		if err := n.Load(ar); err != nil {
			return err
		}

		if withPending, ok := n.(interface {
			PendingStaticDependencies() ([]string, []bool)
		}); ok {
			names, weak := withPending.PendingStaticDependencies()
			if len(names) > 0 {
				pending = append(pending, pendingDeps{node: n, names: names, weak: weak})
			}
		}

		loaded[n.Name()] = n
	}
	if ar.Error() != nil {
		return ar.Error()
	}

	// second pass: resolve static dependency names now that every node
	// exists.
	for _, deps := range pending {
		resolved := make(Dependencies, 0, len(deps.names))
		for i, name := range deps.names {
			target, ok := loaded[Name(name)]
			if !ok {
				return fmt.Errorf("graph: load: dependency %q of %q not found", name, deps.node.Name())
			}
			resolved = append(resolved, Dependency{Node: target, Weak: deps.weak[i]})
		}
		deps.node.SetStaticDependencies(resolved)
	}

	g.mu.Lock()
	g.nodes = loaded
	g.mu.Unlock()
	return nil
}
