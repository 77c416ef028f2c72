package sched

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/forgebuild/corebuild/graph"
	"github.com/forgebuild/corebuild/internal/base"
)

// WorkerThread drives one dispatch loop against a JobQueue (spec.md §4.5).
// Each worker carries a thread index, should_exit/exited atomic flags, and
// owns a private temp directory under TmpRoot/core_<index>/.
type WorkerThread struct {
	index int16

	queue   *JobQueue
	graph   *graph.NodeGraph
	options WorkerOptions

	shouldExit atomic.Bool
	exited     atomic.Bool

	cancel context.CancelFunc
	tmpDir string
}

// WorkerOptions mirrors the CLI surface the core consumes (spec.md §6).
type WorkerOptions struct {
	MinPercentMemoryAvailable     uint32
	WaitDurationWhenMemoryStressedSec uint32
	NoLocalConsumptionOfRemoteJobs   bool
	AllowLocalRace                   bool
	TmpRoot                          string
	CanBuildSecondPass                bool
}

func NewWorkerThread(index int16, queue *JobQueue, g *graph.NodeGraph, opts WorkerOptions) *WorkerThread {
	tmpDir := filepath.Join(opts.TmpRoot, "core_"+itoa16(index))
	return &WorkerThread{
		index:   index,
		queue:   queue,
		graph:   g,
		options: opts,
		tmpDir:  tmpDir,
	}
}

func itoa16(v int16) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [6]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Index returns the worker's thread-local index.
func (w *WorkerThread) Index() int16 { return w.index }

// TmpDir returns this worker's private scratch directory, creating it on
// first use.
func (w *WorkerThread) TmpDir() (string, error) {
	if err := os.MkdirAll(w.tmpDir, 0755); err != nil {
		return "", err
	}
	return w.tmpDir, nil
}

// Stop requests the worker exit at its next poll, the detached equivalent of
// the original's should_exit flag plus stop event.
func (w *WorkerThread) Stop() {
	w.shouldExit.Store(true)
	w.queue.notifyWorkers() // wakes one waiting worker early; the rest see shouldExit after their 500ms wait
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *WorkerThread) HasExited() bool { return w.exited.Load() }

// Run is the worker's detached main loop (spec.md §4.5 "Main loop"). It's
// meant to be launched with `go worker.Run()`.
func (w *WorkerThread) Run() {
	base.LogVerbose(LogScheduler, "worker %d: started", w.index)
	defer func() {
		w.exited.Store(true)
		base.LogVerbose(LogScheduler, "worker %d: exited", w.index)
	}()

	for {
		w.queue.WorkerThreadWait(500)

		if w.shouldExit.Load() {
			return
		}

		if IsSystemMemoryStressed(w.options.MinPercentMemoryAvailable) {
			wait := time.Duration(w.options.WaitDurationWhenMemoryStressedSec) * time.Second
			time.Sleep(wait)
			continue
		}

		w.update()
	}
}

// update implements the per-iteration dispatch order from spec.md §4.4
// "Selection policy": local second-pass first, then any ready job, then
// (if enabled) distributable consumption, then (if enabled) local racing.
func (w *WorkerThread) update() bool {
	if job := w.queue.GetLocalJobToBuildSecondPass(); job != nil {
		w.process(job, false)
		return true
	}

	if job := w.queue.GetJobToProcess(); job != nil {
		w.process(job, false)
		return true
	}

	if !w.options.NoLocalConsumptionOfRemoteJobs {
		if job := w.queue.GetDistributableJobToProcess(false, w.options.CanBuildSecondPass); job != nil {
			w.process(job, false)
			return true
		}
	}

	if w.options.AllowLocalRace {
		if job := w.queue.GetDistributableJobToRace(w.options.CanBuildSecondPass); job != nil {
			w.process(job, true)
			return true
		}
	}

	return false
}

// process runs one job's build action to completion and reports the result
// back to the queue. If job.SecondPass is set (the job was re-queued after an
// earlier NeedSecondBuildPass/NeedSecondLocalBuildPass result), Node.DoBuild2
// runs instead of Node.DoBuild (spec.md §4.2 "do_build(job) -> ...
// NeedSecondBuildPass, NeedSecondLocalBuildPass"). racing marks this as a
// local copy racing an in-flight remote dispatch of the same job: ResolveRace
// arbitrates which of the two sides actually reports, so a losing local
// racer's own result is simply discarded rather than clobbering the remote's
// real one (spec.md §4.4 "Race cancellation"). A remote win does not cancel
// the local build: its ctx is canceled only when process returns or the
// worker is stopped, so a losing local child process runs to completion.
func (w *WorkerThread) process(job *Job, racing bool) {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	defer cancel()

	node := job.Node
	node.SetState(graph.Building)

	bc := buildContext{graph: w.graph, ctx: ctx}

	var result graph.BuildResult
	if job.SecondPass {
		result = node.DoBuild2(bc)
	} else {
		result = node.DoBuild(bc)
		if result == graph.ResultOk && node.SupportsSecondBuildPass() {
			result = graph.ResultNeedSecondBuildPass
		}
	}

	if racing && !w.queue.ResolveRace(job, true) {
		return
	}

	dependents := w.graph.DependentsOf(node.Name())
	w.queue.FinishedProcessingJob(job, result, false, dependents)
}

type buildContext struct {
	graph *graph.NodeGraph
	ctx   context.Context
}

func (b buildContext) Graph() *graph.NodeGraph     { return b.graph }
func (b buildContext) Context() graph.CancelContext { return b.ctx }
