package sched

import (
	"sync"
	"time"

	"github.com/forgebuild/corebuild/graph"
	"github.com/forgebuild/corebuild/internal/base"
)

var LogScheduler = base.NewLogCategory("Scheduler")

// JobQueue owns the five logical queues a build walks jobs through (spec.md
// §4.4): Pending, Local-ready, Distributable-ready, Second-pass-local, and
// Finished. All public operations are safe for concurrent use by any number
// of worker threads plus the orchestrating main thread.
type JobQueue struct {
	mu sync.Mutex

	pending             map[graph.Name]*pendingEntry
	localReady          []*Job
	distributableReady  []*Job
	distributableInFlight []*Job // distributable-ready jobs currently dispatched, eligible for racing
	secondPassLocal     []*Job
	finished            []*Job

	noLocalConsumptionOfRemoteJobs bool
	allowLocalRace                 bool

	workAvailable chan struct{} // buffered(1): non-blocking "something changed" signal
	mainWake      chan struct{} // buffered(1): signals the orchestrator on terminal events

	onBuildError base.ConcurrentEvent[graph.Node]
}

// pendingEntry tracks a node awaiting its remaining unresolved dependencies.
type pendingEntry struct {
	node         graph.Node
	isLocal      bool
	distributable bool
	remaining    int
}

func NewJobQueue(noLocalConsumptionOfRemoteJobs, allowLocalRace bool) *JobQueue {
	return &JobQueue{
		pending:                        make(map[graph.Name]*pendingEntry),
		noLocalConsumptionOfRemoteJobs: noLocalConsumptionOfRemoteJobs,
		allowLocalRace:                 allowLocalRace,
		workAvailable:                  make(chan struct{}, 1),
		mainWake:                       make(chan struct{}, 1),
	}
}

func (q *JobQueue) OnBuildError() *base.ConcurrentEvent[graph.Node] { return &q.onBuildError }

func (q *JobQueue) notifyWorkers() {
	select {
	case q.workAvailable <- struct{}{}:
	default:
	}
}

// WakeMainThread releases the orchestrator on a terminal event (spec.md §4.4
// "wake_main_thread").
func (q *JobQueue) WakeMainThread() {
	select {
	case q.mainWake <- struct{}{}:
	default:
	}
}

// MainThreadWait blocks the orchestrator until WakeMainThread fires.
func (q *JobQueue) MainThreadWait() {
	<-q.mainWake
}

// WorkerThreadWait blocks up to timeoutMs for a work-available signal
// (spec.md §4.4 "worker_thread_wait").
func (q *JobQueue) WorkerThreadWait(timeoutMs int) {
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-q.workAvailable:
	case <-timer.C:
	}
}

// AddPending registers node as awaiting numDeps unresolved dependencies. A
// node with zero remaining dependencies is promoted straight to a ready
// queue.
func (q *JobQueue) AddPending(node graph.Node, isLocal, distributable bool, numDeps int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if numDeps <= 0 {
		q.promoteLocked(node, isLocal, distributable)
		return
	}
	q.pending[node.Name()] = &pendingEntry{node: node, isLocal: isLocal, distributable: distributable, remaining: numDeps}
}

// DependencyFinished decrements dependents' remaining-dependency counters and
// promotes any that reach zero, mirroring finished_processing_job's "marks
// dependents potentially ready" step (spec.md §4.4).
func (q *JobQueue) DependencyFinished(dependents []graph.Name) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, name := range dependents {
		entry, ok := q.pending[name]
		if !ok {
			continue
		}
		entry.remaining--
		if entry.remaining <= 0 {
			delete(q.pending, name)
			q.promoteLocked(entry.node, entry.isLocal, entry.distributable)
		}
	}
}

func (q *JobQueue) promoteLocked(node graph.Node, isLocal, distributable bool) {
	job := NewJob(node, isLocal)
	if distributable {
		q.distributableReady = append(q.distributableReady, job)
	} else {
		q.localReady = append(q.localReady, job)
	}
	q.notifyWorkers()
}

// QueueLocalJobToBuildSecondPass places job on the second-pass-local queue
// (spec.md §4.4 "queue_local_job_to_build_second_pass").
func (q *JobQueue) QueueLocalJobToBuildSecondPass(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.secondPassLocal = append(q.secondPassLocal, job)
	q.notifyWorkers()
}

// QueueDistributableJob places job on the distributable-ready queue (spec.md
// §4.4 "queue_distributable_job").
func (q *JobQueue) QueueDistributableJob(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job.Distribution = NotDistributed
	q.distributableReady = append(q.distributableReady, job)
	q.notifyWorkers()
}

// GetLocalJobToBuildSecondPass pops the oldest second-pass-local job, if any.
func (q *JobQueue) GetLocalJobToBuildSecondPass() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.secondPassLocal) == 0 {
		return nil
	}
	job := q.secondPassLocal[0]
	q.secondPassLocal = q.secondPassLocal[1:]
	return job
}

// GetJobToProcess pops the oldest job on the local-ready queue (spec.md §4.4
// "get_job_to_process"); distributable-ready jobs are handed out by
// GetDistributableJobToProcess instead.
func (q *JobQueue) GetJobToProcess() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.localReady) == 0 {
		return nil
	}
	job := q.localReady[0]
	q.localReady = q.localReady[1:]
	return job
}

// GetDistributableJobToProcess pops the oldest distributable-ready job.
// remoteOnly marks the caller as the remote dispatch adapter rather than a
// local worker deciding to consume work, which exempts it from
// noLocalConsumptionOfRemoteJobs; canBuildSecondPass gates whether a job
// re-queued for its second pass (SecondPass set) may be handed out here at
// all (spec.md §4.4 "get_distributable_job_to_process").
func (q *JobQueue) GetDistributableJobToProcess(remoteOnly, canBuildSecondPass bool) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if remoteOnly {
		// remote dispatch always may take work; local consumption is gated
		// by noLocalConsumptionOfRemoteJobs in the branch below.
	} else if q.noLocalConsumptionOfRemoteJobs {
		return nil
	}

	for i, job := range q.distributableReady {
		if job.SecondPass && !canBuildSecondPass {
			continue
		}
		q.distributableReady = append(q.distributableReady[:i], q.distributableReady[i+1:]...)
		job.Distribution = Distributing
		q.distributableInFlight = append(q.distributableInFlight, job)
		return job
	}
	return nil
}

// GetDistributableJobToRace returns the very same in-flight Job the remote
// dispatch loop is waiting on, not a copy, so that ResolveRace lets exactly
// one of the two sides report the finished build (spec.md §4.4
// "get_distributable_job_to_race"). Returns nil when local racing is
// disabled or nothing is currently in flight.
func (q *JobQueue) GetDistributableJobToRace(canBuildSecondPass bool) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.allowLocalRace {
		return nil
	}
	for _, job := range q.distributableInFlight {
		if job.Distribution == Distributing {
			return job
		}
	}
	return nil
}

// ResolveRace is how both sides of a distributable job -- a racing local
// worker and the remote dispatch loop -- agree on exactly one winner when the
// job is genuinely finished (spec.md §4.4 "Race cancellation"). It is also
// used by a plain (non-racing) remote dispatch to flip the job out of
// Distributing before reporting, so FinishedProcessingJob has a consistent
// signal for whether this call is the one that should actually report.
// local is true when called by a local worker that just finished the job,
// false when called by the remote dispatch loop. Returns true if this call
// is the first to resolve the job (and must go on to call
// FinishedProcessingJob); false if the other side already resolved it first,
// in which case this side's result must be discarded.
func (q *JobQueue) ResolveRace(job *Job, local bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job.Distribution != Distributing {
		return false
	}
	if local {
		job.Distribution = RaceWonLocally
	} else {
		job.Distribution = RaceWonRemotelyCancelLocal
	}
	return true
}

// FinishedProcessingJob updates the node's state/stamp, promotes dependents,
// and signals waiters (spec.md §4.4 "finished_processing_job").
// dependentNames is the set of nodes whose remaining-dependency count should
// be decremented as a result of job completing. wasRemote distinguishes a
// report coming from the remote dispatch loop from one coming from a local
// worker: only a local report can be suppressed by SuppressFailure, since a
// losing local racer's own Failed result (e.g. its process was killed on
// cancellation) must not override the remote's already-reported real result.
func (q *JobQueue) FinishedProcessingJob(job *Job, result graph.BuildResult, wasRemote bool, dependentNames []graph.Name) {
	job.wasRemote = wasRemote

	switch result {
	case graph.ResultOk:
		job.Node.SetState(graph.UpToDate)
	case graph.ResultFailed:
		if !wasRemote && job.SuppressFailure() {
			job.Node.SetState(graph.UpToDate)
			break
		}
		job.Node.SetState(graph.Failed)
		q.onBuildError.Invoke(job.Node)
	case graph.ResultNeedSecondBuildPass:
		job.SecondPass = true
		q.QueueDistributableJob(job)
		return
	case graph.ResultNeedSecondLocalBuildPass:
		job.SecondPass = true
		q.QueueLocalJobToBuildSecondPass(job)
		return
	}

	q.mu.Lock()
	q.finished = append(q.finished, job)
	q.mu.Unlock()

	q.DependencyFinished(dependentNames)
	q.notifyWorkers()
}
