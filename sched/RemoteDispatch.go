package sched

import "github.com/forgebuild/corebuild/graph"

// RemoteDispatcher is the small interface the scheduler uses to hand off
// distributable jobs to whatever remote worker discovery / wire protocol the
// surrounding tool provides (spec.md §1 "the core assumes an injected
// 'remote dispatch' collaborator with a small interface"). Discovery, the
// wire protocol itself, and cache-plugin loading are explicitly out of scope
// for the core.
type RemoteDispatcher interface {
	// Dispatch sends job to a remote worker and returns once that worker has
	// accepted or rejected it. accepted == false means the caller should fall
	// back to local consumption or racing.
	Dispatch(job *Job) (accepted bool, err error)

	// Wait blocks until the remote worker that accepted job (via Dispatch)
	// reports a result, so the loop can feed it into FinishedProcessingJob --
	// without this, an accepted job would never be reported and its
	// dependents would never be promoted (spec.md §8 "all ready nodes
	// eventually reach Up-to-date").
	Wait(job *Job) (graph.BuildResult, error)

	// Cancel notifies the remote worker a race was already won locally so it
	// can stop work in flight, the remote-side mirror of a local process kill
	// on ctx cancellation (spec.md §4.4 "Race cancellation").
	Cancel(job *Job) error
}

// remoteDispatchLoop pulls distributable jobs off the queue and hands them to
// dispatcher, looping until stopped. This is the adapter's polling side; the
// dispatcher implementation supplies the actual network/IPC behavior.
type remoteDispatchLoop struct {
	queue      *JobQueue
	graph      *graph.NodeGraph
	dispatcher RemoteDispatcher
	stop       chan struct{}
}

func NewRemoteDispatchLoop(queue *JobQueue, g *graph.NodeGraph, dispatcher RemoteDispatcher) *remoteDispatchLoop {
	return &remoteDispatchLoop{queue: queue, graph: g, dispatcher: dispatcher, stop: make(chan struct{})}
}

func (l *remoteDispatchLoop) Stop() { close(l.stop) }

// Run dispatches distributable jobs and waits for each one's real result
// before reporting it, so a remotely-built node actually leaves Building and
// promotes its dependents. ResolveRace arbitrates against a local worker that
// might be racing the same job: whichever side resolves first reports via
// FinishedProcessingJob, the other's result is discarded.
func (l *remoteDispatchLoop) Run(canBuildSecondPass bool) {
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		job := l.queue.GetDistributableJobToProcess(true, canBuildSecondPass)
		if job == nil {
			l.queue.WorkerThreadWait(500)
			continue
		}

		accepted, err := l.dispatcher.Dispatch(job)
		if err != nil || !accepted {
			// give it back to local workers
			job.Distribution = NotDistributed
			l.queue.QueueDistributableJob(job)
			continue
		}

		result, waitErr := l.dispatcher.Wait(job)

		if !l.queue.ResolveRace(job, false) {
			// a racing local copy already finished and reported first; tell
			// the remote side to stop, if it hasn't already.
			_ = l.dispatcher.Cancel(job)
			continue
		}

		if waitErr != nil {
			result = graph.ResultFailed
		}
		dependents := l.graph.DependentsOf(job.Node.Name())
		l.queue.FinishedProcessingJob(job, result, true, dependents)
	}
}
