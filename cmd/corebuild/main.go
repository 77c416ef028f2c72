// Command corebuild drives a single DependencyList build to completion: it
// wires a NodeGraph, a JobQueue-backed WorkerPool, and an example DependencyList
// node the way the surrounding tool (out of scope for the core, spec.md §1)
// would after its own BFF parsing stage populated the graph.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/forgebuild/corebuild/graph"
	"github.com/forgebuild/corebuild/internal/base"
	"github.com/forgebuild/corebuild/sched"
)

var LogMain = base.NewLogCategory("Main")

func main() {
	minPercentMemoryAvailable := flag.Uint("min_percent_memory_available", 0, "throttle workers when available memory drops below this percentage (0 disables)")
	waitWhenStressedSec := flag.Uint("wait_duration_when_memory_stressed", 5, "seconds a worker waits after detecting memory stress")
	noLocalConsumption := flag.Bool("no_local_consumption_of_remote_jobs", false, "disable local workers picking up distributable jobs")
	allowLocalRace := flag.Bool("allow_local_race", false, "allow a local worker to race an in-flight distributable job")
	numWorkers := flag.Int("workers", 4, "number of worker threads")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	root := flag.String("root", ".", "root directory file nodes are resolved against")
	dest := flag.String("dest", "dependencies.txt", "output path for the dependency list")
	flag.Parse()

	base.SetLogger(base.NewLogger(*verbose))

	g := graph.NewNodeGraph(*root)

	topLevel, err := buildExampleGraph(g, flag.Args())
	if err != nil {
		base.LogError(LogMain, "failed to construct graph: %v", err)
		os.Exit(1)
	}

	listNode, err := g.CreateDependencyListNode("//dependency-list", topLevel.Name(), *dest, nil)
	if err != nil {
		base.LogError(LogMain, "failed to create dependency list node: %v", err)
		os.Exit(1)
	}
	if err := listNode.Initialize(g); err != nil {
		base.LogError(LogMain, "failed to initialize dependency list node: %v", err)
		os.Exit(1)
	}

	pool := sched.NewWorkerPool(*numWorkers, g, sched.WorkerOptions{
		MinPercentMemoryAvailable:         uint32(*minPercentMemoryAvailable),
		WaitDurationWhenMemoryStressedSec: uint32(*waitWhenStressedSec),
		NoLocalConsumptionOfRemoteJobs:    *noLocalConsumption,
		AllowLocalRace:                    *allowLocalRace,
		TmpRoot:                           os.TempDir(),
	})
	pool.Start()
	defer pool.Stop(5 * time.Second)

	pool.Queue.AddPending(listNode, true, false, 0)

	waitForNode(listNode)

	if listNode.State() != graph.UpToDate {
		base.LogError(LogMain, "build failed: %s", listNode.Name())
		os.Exit(1)
	}
	base.LogInfo(LogMain, "dependency list written to %s", *dest)
}

// buildExampleGraph wires up an AliasNode over whatever top-level file paths
// were given on the command line, standing in for what a real build-script
// front-end would otherwise construct (spec.md §1 Non-goals).
func buildExampleGraph(g *graph.NodeGraph, inputs []string) (graph.Node, error) {
	var targets []graph.Name
	seen := make(map[graph.Name]bool, len(inputs))
	for _, path := range inputs {
		name, err := g.CleanPath(path)
		if err != nil {
			return nil, err
		}
		// a name may be claimed by at most one node (spec.md §3/§4.1), so a
		// path repeated on the command line must only be registered once.
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, err := g.CreateFileNode(name); err != nil {
			return nil, err
		}
		targets = append(targets, name)
	}

	alias, err := g.CreateAliasNode("//all", targets)
	if err != nil {
		return nil, err
	}
	return alias, nil
}

// waitForNode polls until node reaches the UpToDate or Failed state. A
// real orchestrator would instead block on JobQueue.MainThreadWait and be
// woken by WakeMainThread once the graph drains; this simplified loop keeps
// the CLI self-contained for a single top-level target.
func waitForNode(node graph.Node) {
	for {
		switch node.State() {
		case graph.UpToDate, graph.Failed:
			return
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
}
