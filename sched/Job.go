package sched

import (
	"github.com/forgebuild/corebuild/graph"
)

// DistributionState tracks where a distributable job stands relative to a
// remote worker, grounded on spec.md §4.4 "Job".
type DistributionState int32

const (
	NotDistributed DistributionState = iota
	Distributing
	RaceWonLocally
	RaceWonRemotelyCancelLocal
)

func (s DistributionState) String() string {
	switch s {
	case NotDistributed:
		return "NotDistributed"
	case Distributing:
		return "Distributing"
	case RaceWonLocally:
		return "RaceWonLocally"
	case RaceWonRemotelyCancelLocal:
		return "RaceWonRemotelyCancelLocal"
	default:
		return "Unknown"
	}
}

// Job wraps a node that has entered the Building state (spec.md §4.4).
type Job struct {
	Node graph.Node

	IsLocal                     bool
	Distribution                DistributionState
	TryPostponeLocalToSecondPass bool

	// SecondPass is set by FinishedProcessingJob when a NeedSecondBuildPass
	// or NeedSecondLocalBuildPass result re-queues this job, telling whichever
	// worker next picks it up to call Node.DoBuild2 instead of Node.DoBuild
	// (spec.md §4.2 "do_build(job) -> ... NeedSecondBuildPass ...").
	SecondPass bool

	// recorded by FinishedProcessingJob; the race-cancellation check there
	// uses its wasRemote argument directly, not this field.
	wasRemote bool
}

func NewJob(node graph.Node, isLocal bool) *Job {
	return &Job{Node: node, IsLocal: isLocal, Distribution: NotDistributed}
}

// SuppressFailure reports whether this job's Failed result should be
// swallowed rather than propagated, per spec.md §4.4 "Race cancellation":
// true only when the local copy lost a race it was never going to report.
func (j *Job) SuppressFailure() bool {
	return j.Distribution == RaceWonRemotelyCancelLocal
}
