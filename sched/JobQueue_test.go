package sched

import (
	"testing"

	"github.com/forgebuild/corebuild/graph"
)

func TestAddPendingPromotesImmediatelyWhenNoDeps(t *testing.T) {
	q := NewJobQueue(false, false)
	node := graph.NewFileNode("a.cpp")

	q.AddPending(node, true, false, 0)

	job := q.GetJobToProcess()
	if job == nil {
		t.Fatalf("expected a ready job")
	}
	if job.Node.Name() != node.Name() {
		t.Errorf("got job for %q, want %q", job.Node.Name(), node.Name())
	}
}

func TestGetJobToProcessIsFIFO(t *testing.T) {
	q := NewJobQueue(false, false)
	first := graph.NewFileNode("first")
	second := graph.NewFileNode("second")

	q.AddPending(first, true, false, 0)
	q.AddPending(second, true, false, 0)

	j1 := q.GetJobToProcess()
	j2 := q.GetJobToProcess()

	if j1.Node.Name() != "first" || j2.Node.Name() != "second" {
		t.Errorf("expected FIFO order first,second; got %v,%v", j1.Node.Name(), j2.Node.Name())
	}
}

func TestDependencyFinishedPromotesDependent(t *testing.T) {
	q := NewJobQueue(false, false)
	dependent := graph.NewAliasNode("libx")

	q.AddPending(dependent, true, false, 1)

	if job := q.GetJobToProcess(); job != nil {
		t.Fatalf("dependent should not be ready yet, got %v", job.Node.Name())
	}

	q.DependencyFinished([]graph.Name{dependent.Name()})

	job := q.GetJobToProcess()
	if job == nil || job.Node.Name() != "libx" {
		t.Errorf("expected libx to become ready after its one dependency finished")
	}
}

func TestFinishedProcessingJobMarksUpToDateAndPromotesDependents(t *testing.T) {
	q := NewJobQueue(false, false)

	base := graph.NewFileNode("base.cpp")
	alias := graph.NewAliasNode("libx")
	alias.SetStaticDependencies(graph.Dependencies{{Node: base}})

	q.AddPending(base, true, false, 0)
	q.AddPending(alias, true, false, 1)

	baseJob := q.GetJobToProcess()
	q.FinishedProcessingJob(baseJob, graph.ResultOk, false, []graph.Name{alias.Name()})

	if base.State() != graph.UpToDate {
		t.Errorf("base.cpp state = %v, want UpToDate", base.State())
	}

	aliasJob := q.GetJobToProcess()
	if aliasJob == nil || aliasJob.Node.Name() != "libx" {
		t.Errorf("expected libx to be promoted after base.cpp finished")
	}
}

func TestRaceCancellationSuppressesFailure(t *testing.T) {
	q := NewJobQueue(false, true)
	node := graph.NewFileNode("raced.cpp")
	job := NewJob(node, true)
	job.Distribution = RaceWonRemotelyCancelLocal

	q.FinishedProcessingJob(job, graph.ResultFailed, false, nil)

	if node.State() != graph.UpToDate {
		t.Errorf("expected race-cancellation to suppress failure, got state %v", node.State())
	}
}

func TestNeedSecondBuildPassRequeuesWithSecondPassSet(t *testing.T) {
	q := NewJobQueue(false, false)
	node := graph.NewFileNode("obj.cpp")
	job := NewJob(node, false)

	q.FinishedProcessingJob(job, graph.ResultNeedSecondBuildPass, true, nil)

	if !job.SecondPass {
		t.Fatalf("expected SecondPass to be set after a NeedSecondBuildPass result")
	}
	requeued := q.GetDistributableJobToProcess(true, true)
	if requeued == nil || requeued != job {
		t.Fatalf("expected the same job to reappear on the distributable-ready queue")
	}

	q.FinishedProcessingJob(job, graph.ResultOk, true, nil)
	if node.State() != graph.UpToDate {
		t.Errorf("node state = %v, want UpToDate after the second pass completes", node.State())
	}
}

func TestNeedSecondLocalBuildPassRequeuesOnSecondPassLocalQueue(t *testing.T) {
	q := NewJobQueue(false, false)
	node := graph.NewFileNode("obj.cpp")
	job := NewJob(node, true)

	q.FinishedProcessingJob(job, graph.ResultNeedSecondLocalBuildPass, false, nil)

	if !job.SecondPass {
		t.Fatalf("expected SecondPass to be set after a NeedSecondLocalBuildPass result")
	}
	requeued := q.GetLocalJobToBuildSecondPass()
	if requeued == nil || requeued != job {
		t.Fatalf("expected the same job to reappear on the second-pass-local queue")
	}

	q.FinishedProcessingJob(job, graph.ResultOk, false, nil)
	if node.State() != graph.UpToDate {
		t.Errorf("node state = %v, want UpToDate after the local second pass completes", node.State())
	}
}

func TestResolveRaceLetsOnlyOneSideReport(t *testing.T) {
	q := NewJobQueue(false, true)
	node := graph.NewFileNode("raced.cpp")
	job := NewJob(node, false)
	job.Distribution = Distributing

	if !q.ResolveRace(job, true) {
		t.Fatalf("expected the first ResolveRace call to win")
	}
	if job.Distribution != RaceWonLocally {
		t.Errorf("Distribution = %v, want RaceWonLocally", job.Distribution)
	}
	if q.ResolveRace(job, false) {
		t.Errorf("expected the second ResolveRace call to lose once the job is already resolved")
	}
}

func TestNoLocalConsumptionOfRemoteJobsBlocksLocalPull(t *testing.T) {
	q := NewJobQueue(true, false)
	node := graph.NewFileNode("remote.cpp")
	q.QueueDistributableJob(NewJob(node, false))

	if job := q.GetDistributableJobToProcess(false, false); job != nil {
		t.Errorf("expected no_local_consumption_of_remote_jobs to block local pull")
	}
	if job := q.GetDistributableJobToProcess(true, false); job == nil {
		t.Errorf("expected remote-only caller to still receive the job")
	}
}
