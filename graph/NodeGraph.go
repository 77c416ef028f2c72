package graph

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/forgebuild/corebuild/internal/base"
)

/***************************************
 * Errors
 ***************************************/

// ErrAlreadyDefined is returned by Create*Node when any node -- same type or
// not -- already owns the requested name (spec.md §3 "creating a node with
// an already-existing name is an error"; §4.1 "a name may be claimed by at
// most one node").
type ErrAlreadyDefined struct {
	Name     Name
	Existing Type
	Wanted   Type
}

func (e *ErrAlreadyDefined) Error() string {
	return fmt.Sprintf("graph: %q already defined as %s node, wanted %s", e.Name, e.Existing, e.Wanted)
}

// ErrPathNotAllowed is returned when CleanPath is handed a path outside of
// the graph's configured root directories (spec.md §4.1 "root confinement").
type ErrPathNotAllowed struct{ Path string }

func (e *ErrPathNotAllowed) Error() string {
	return fmt.Sprintf("graph: path %q is outside of allowed roots", e.Path)
}

// ErrNotFound is returned by FindNode for an unregistered name.
type ErrNotFound struct{ Name Name }

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("graph: node %q not found", e.Name)
}

/***************************************
 * NodeGraph
 ***************************************/

// NodeGraph is the name-indexed registry of every node created for a build
// (spec.md §4.1 "NodeGraph"). All lookups and insertions are safe for
// concurrent use since dynamic-dependency discovery can run on worker threads.
type NodeGraph struct {
	mu    sync.RWMutex
	nodes map[Name]Node
	roots []string
}

func NewNodeGraph(roots ...string) *NodeGraph {
	g := &NodeGraph{
		nodes: make(map[Name]Node, 4096),
	}
	for _, r := range roots {
		g.roots = append(g.roots, cleanRoot(r))
	}
	return g
}

func cleanRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return filepath.Clean(abs)
}

// CleanPath canonicalizes a path the way the build's own file nodes must be
// named: made absolute against the first configured root when relative, case
// folded on case-insensitive filesystems, and normalized to the native
// separator (spec.md §4.1). Paths resolving outside every configured root are
// rejected, since a node's identity must be stable across runs.
func (g *NodeGraph) CleanPath(path string) (Name, error) {
	abs := path
	if !filepath.IsAbs(abs) && len(g.roots) > 0 {
		abs = filepath.Join(g.roots[0], abs)
	}
	abs = filepath.Clean(abs)

	if len(g.roots) > 0 {
		allowed := false
		for _, root := range g.roots {
			if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", &ErrPathNotAllowed{Path: path}
		}
	}

	if !base.CaseSensitiveFileSystem() {
		abs = strings.ToLower(abs)
	}
	if sep := base.NativePathSeparator(); sep != filepath.Separator {
		abs = strings.ReplaceAll(abs, string(filepath.Separator), string(sep))
	}
	return Name(abs), nil
}

// FindNode looks up an already-registered node by name.
func (g *NodeGraph) FindNode(name Name) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	return n, nil
}

// AllNodes returns every registered node, in no particular order.
func (g *NodeGraph) AllNodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// DependentsOf returns the names of every registered node that lists name
// among its static or dynamic dependencies. The scheduler calls this when a
// job finishes to find which pending nodes just had one dependency resolved
// (spec.md §4.4 "finished_processing_job... marks dependents potentially
// ready"). This walks the whole registry rather than maintaining a standing
// reverse index, since it only runs once per completed job, not per poll.
func (g *NodeGraph) DependentsOf(name Name) []Name {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Name
	for _, n := range g.nodes {
		for _, d := range n.StaticDependencies() {
			if d.Node.Name() == name {
				out = append(out, n.Name())
				break
			}
		}
		for _, d := range n.DynamicDependencies() {
			if d.Node.Name() == name {
				out = append(out, n.Name())
				break
			}
		}
	}
	return out
}

// insert registers a freshly constructed node under name. A name may be
// claimed by at most one node: creating a node with an already-existing name
// is unconditionally an error, even when the existing node has the same type
// (spec.md §3 "Creating a node with an already-existing name is an error";
// §4.1 Error conditions: AlreadyDefined on name collision, no exception
// listed).
func (g *NodeGraph) insert(name Name, kind Type, build func() Node) (Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.nodes[name]; ok {
		return nil, &ErrAlreadyDefined{Name: name, Existing: existing.Type(), Wanted: kind}
	}

	n := build()
	g.nodes[name] = n
	return n, nil
}

// Resolve looks up each name in the registry and returns them as
// Dependencies, all with the given weak bit, failing with *ErrNotFound on the
// first unregistered name. CreateAliasNode uses it to wire up what BFF-level
// parsing (out of scope here, spec.md Non-goals) would otherwise populate
// directly.
func (g *NodeGraph) Resolve(names []Name, weak bool) (Dependencies, error) {
	deps := make(Dependencies, 0, len(names))
	for _, name := range names {
		n, err := g.FindNode(name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, Dependency{Node: n, Weak: weak})
	}
	return deps, nil
}
