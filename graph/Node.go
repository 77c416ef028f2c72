// Package graph implements the node graph abstraction of the build core: typed
// nodes, strong/weak dependencies, and staleness stamps (spec.md §3-§4).
package graph

import (
	"sync"

	"github.com/forgebuild/corebuild/internal/base"
)

var LogGraph = base.NewLogCategory("Graph")

/***************************************
 * Node identity
 ***************************************/

// Name is a node's stable identifier: a canonicalized absolute path for file
// nodes, or a logical name for group nodes (spec.md §3 "Node").
type Name string

func (n Name) String() string { return string(n) }

// Hash returns the 32-bit name hash used for bucketing (spec.md §3, §4.3).
func (n Name) Hash() uint32 {
	return base.Fnv1a32(string(n))
}

/***************************************
 * Node type tag
 ***************************************/

type Type int32

const (
	FILE_NODE Type = iota
	OBJECT_NODE
	LIBRARY_NODE
	EXECUTABLE_NODE
	ALIAS_NODE
	DEPENDENCY_LIST_NODE
	COPY_NODE
	SETTINGS_NODE
)

func (t Type) String() string {
	switch t {
	case FILE_NODE:
		return "File"
	case OBJECT_NODE:
		return "Object"
	case LIBRARY_NODE:
		return "Library"
	case EXECUTABLE_NODE:
		return "Executable"
	case ALIAS_NODE:
		return "Alias"
	case DEPENDENCY_LIST_NODE:
		return "DependencyList"
	case COPY_NODE:
		return "Copy"
	case SETTINGS_NODE:
		return "Settings"
	default:
		return "Unknown"
	}
}

/***************************************
 * Flags
 ***************************************/

type Flags uint32

const (
	FLAG_NONE          Flags = 0
	FLAG_TRIVIAL_BUILD Flags = 1 << iota
	FLAG_ALWAYS_BUILD
	FLAG_IS_FILE
)

func (f Flags) Has(bit Flags) bool { return f&bit == bit }

/***************************************
 * Build state
 ***************************************/

type State int32

const (
	NotProcessed State = iota
	StatingInputs
	DynamicDepsDone
	Building
	UpToDate
	Failed
)

func (s State) String() string {
	switch s {
	case NotProcessed:
		return "NotProcessed"
	case StatingInputs:
		return "StatingInputs"
	case DynamicDepsDone:
		return "DynamicDepsDone"
	case Building:
		return "Building"
	case UpToDate:
		return "Up-to-date"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

/***************************************
 * Stamp
 ***************************************/

// Stamp summarizes a node's current output: the last-write-time for file
// nodes, a hash over children's stamps for group nodes. Zero means missing or
// invalid (spec.md §3 "Stamp").
type Stamp uint64

func (s Stamp) Valid() bool { return s != 0 }

/***************************************
 * Dependency
 ***************************************/

// Dependency is a (node, weak) pair. Weak edges order builds but do not force
// rebuild propagation and are skipped by the transitive collector (spec.md §3).
type Dependency struct {
	Node Node
	Weak bool
}

type Dependencies []Dependency

func (deps Dependencies) Names() []Name {
	out := make([]Name, len(deps))
	for i, d := range deps {
		out[i] = d.Node.Name()
	}
	return out
}

/***************************************
 * Build result
 ***************************************/

type BuildResult int32

const (
	ResultOk BuildResult = iota
	ResultFailed
	ResultNeedSecondBuildPass
	ResultNeedSecondLocalBuildPass
)

func (r BuildResult) String() string {
	switch r {
	case ResultOk:
		return "Ok"
	case ResultFailed:
		return "Failed"
	case ResultNeedSecondBuildPass:
		return "NeedSecondBuildPass"
	case ResultNeedSecondLocalBuildPass:
		return "NeedSecondLocalBuildPass"
	default:
		return "Unknown"
	}
}

/***************************************
 * BuildContext
 ***************************************/

// BuildContext is what a node's DoBuild is given: access back to the graph
// (to resolve dependency stamps) plus the job's cancellation signal. The core
// never constructs one concretely inside a node — it's the seam a real
// toolchain-specific node implementation builds against (spec.md §1 "the core
// treats each as an opaque DoBuild implementation").
type BuildContext interface {
	Graph() *NodeGraph
	Context() CancelContext
}

// CancelContext is the minimal slice of context.Context a DoBuild needs to
// honor cooperative cancellation (spec.md §5 "Cooperative cancellation").
type CancelContext interface {
	Done() <-chan struct{}
	Err() error
}

/***************************************
 * Node
 ***************************************/

// Node is the contract every node kind implements (spec.md §4.2).
type Node interface {
	Name() Name
	Type() Type
	Flags() Flags
	IsAFile() bool
	SupportsSecondBuildPass() bool

	Initialize(graph *NodeGraph) error
	DoDynamicDependencies(graph *NodeGraph, forceClean bool) error
	DoBuild(ctx BuildContext) BuildResult
	DoBuild2(ctx BuildContext) BuildResult // only called when SupportsSecondBuildPass()

	Save(ar base.Archive)
	Load(ar base.Archive) error

	// mutable build state, guarded by the node's own lock -- owned exclusively
	// by whichever worker currently holds the job for this node (spec.md §5).
	State() State
	SetState(State)
	Stamp() Stamp
	SetStamp(Stamp)
	LastBuildTimeMs() uint32
	SetLastBuildTimeMs(uint32)

	StaticDependencies() Dependencies
	DynamicDependencies() Dependencies
	SetStaticDependencies(Dependencies)
	SetDynamicDependencies(Dependencies)
}

/***************************************
 * Base node
 ***************************************/

// BaseNode implements the bookkeeping shared by every node variant: locking,
// state/stamp transitions, dependency storage. Concrete variants embed it and
// only implement Initialize/DoBuild/DoBuild2/DoDynamicDependencies/Save/Load.
type BaseNode struct {
	mu sync.RWMutex

	name  Name
	kind  Type
	flags Flags

	state           State
	stamp           Stamp
	lastBuildTimeMs uint32

	static  Dependencies
	dynamic Dependencies

	pendingStaticNames []string
	pendingStaticWeak  []bool
}

func NewBaseNode(name Name, kind Type, flags Flags) BaseNode {
	if kind == FILE_NODE {
		flags |= FLAG_IS_FILE
	}
	return BaseNode{name: name, kind: kind, flags: flags}
}

func (n *BaseNode) Name() Name   { return n.name }
func (n *BaseNode) Type() Type   { return n.kind }
func (n *BaseNode) Flags() Flags { return n.flags }
func (n *BaseNode) IsAFile() bool {
	return n.flags.Has(FLAG_IS_FILE)
}
func (n *BaseNode) SupportsSecondBuildPass() bool { return false }

func (n *BaseNode) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}
func (n *BaseNode) SetState(s State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = s
}
func (n *BaseNode) Stamp() Stamp {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.stamp
}
func (n *BaseNode) SetStamp(s Stamp) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stamp = s
}
func (n *BaseNode) LastBuildTimeMs() uint32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lastBuildTimeMs
}
func (n *BaseNode) SetLastBuildTimeMs(ms uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastBuildTimeMs = ms
}
func (n *BaseNode) StaticDependencies() Dependencies {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return base.CopySlice(n.static...)
}
func (n *BaseNode) DynamicDependencies() Dependencies {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return base.CopySlice(n.dynamic...)
}
func (n *BaseNode) SetStaticDependencies(deps Dependencies) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.static = deps
}
func (n *BaseNode) SetDynamicDependencies(deps Dependencies) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dynamic = deps
}

// saveBase / loadBase persist the fields common to every node kind; variants
// call these before/after serializing their own kind-specific fields, exactly
// as the teacher's Node::Serialize / NODE_SAVE/NODE_LOAD macros compose.
func (n *BaseNode) saveBase(ar base.Archive) {
	name := string(n.name)
	ar.String(&name)
	kind := int64(n.kind)
	ar.Int64(&kind)
	flags := uint32(n.flags)
	ar.Uint32(&flags)
	stamp := uint64(n.stamp)
	ar.Uint64(&stamp)
	lastBuildTimeMs := n.lastBuildTimeMs
	ar.Uint32(&lastBuildTimeMs)

	staticNames := base.Map(func(d Dependency) string { return string(d.Node.Name()) }, n.static...)
	staticWeak := make([]bool, len(n.static))
	for i, d := range n.static {
		staticWeak[i] = d.Weak
	}
	ar.StringSlice(&staticNames)
	for i := range staticWeak {
		ar.Bool(&staticWeak[i])
	}
}

func (n *BaseNode) loadBase(ar base.Archive) (staticNames []string, staticWeak []bool, err error) {
	var name string
	ar.String(&name)
	n.name = Name(name)
	var kind int64
	ar.Int64(&kind)
	n.kind = Type(kind)
	var flags uint32
	ar.Uint32(&flags)
	n.flags = Flags(flags)
	var stamp uint64
	ar.Uint64(&stamp)
	n.stamp = Stamp(stamp)
	ar.Uint32(&n.lastBuildTimeMs)

	ar.StringSlice(&staticNames)
	staticWeak = make([]bool, len(staticNames))
	for i := range staticWeak {
		ar.Bool(&staticWeak[i])
	}

	n.pendingStaticNames = staticNames
	n.pendingStaticWeak = staticWeak
	return staticNames, staticWeak, ar.Error()
}

// PendingStaticDependencies returns the (name, weak) pairs loadBase parsed
// off the wire, before they've been resolved against a live registry. The
// persistence layer calls this once every node in a save file has been
// constructed, so dependency cycles never need pointers to not-yet-loaded
// nodes (spec.md §9 "serialize by name, re-resolve on load").
func (n *BaseNode) PendingStaticDependencies() ([]string, []bool) {
	return n.pendingStaticNames, n.pendingStaticWeak
}
