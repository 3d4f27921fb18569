package usecase_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// fakeFetcher serves one response per ListPipelines call; the last one repeats.
type fakeFetcher struct {
	mu        sync.Mutex
	pipelines [][]*model.Pipeline
	errs      []error
	jobs      map[uint64][]*model.Job
	jobsErr   error

	pipelineCalls int
	jobCalls      []uint64
}

func (f *fakeFetcher) ListPipelines(ctx context.Context, project model.Project, branch string) ([]*model.Pipeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.pipelineCalls
	f.pipelineCalls++

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if len(f.pipelines) == 0 {
		return nil, nil
	}
	if idx >= len(f.pipelines) {
		idx = len(f.pipelines) - 1
	}
	return f.pipelines[idx], nil
}

func (f *fakeFetcher) ListJobs(ctx context.Context, project model.Project, pipelineID uint64) ([]*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jobCalls = append(f.jobCalls, pipelineID)
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return f.jobs[pipelineID], nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipelineCalls
}

func runningPipeline(id uint64) *model.Pipeline {
	return &model.Pipeline{
		ID:     id,
		Status: model.StatusRunning,
		Ref:    "main",
		WebURL: "https://gitlab.example.com/group/app/-/pipelines/" + strconv.FormatUint(id, 10),
	}
}

// recordingDisplay captures display calls by name.
type recordingDisplay struct {
	mu       sync.Mutex
	calls    []string
	blocking []*model.Blocking
	waiting  []*model.Blocking
	pushOK   *bool
}

func (d *recordingDisplay) record(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, name)
}

func (d *recordingDisplay) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func (d *recordingDisplay) ShowTarget(project model.Project, branch string) { d.record("target") }
func (d *recordingDisplay) ShowSettings(settings *model.Settings)          { d.record("settings") }
func (d *recordingDisplay) ShowAuthorized()                                { d.record("authorized") }
func (d *recordingDisplay) ShowCheckFailed(err error)                      { d.record("check_failed") }
func (d *recordingDisplay) ShowWaitStarted()                               { d.record("wait_started") }
func (d *recordingDisplay) ShowCleared()                                   { d.record("cleared") }
func (d *recordingDisplay) ShowPushing(args []string)                      { d.record("pushing") }
func (d *recordingDisplay) ShowWaitAborted(err error)                      { d.record("wait_aborted") }

func (d *recordingDisplay) ShowCancelled(blocking []*model.Blocking) {
	d.record("cancelled")
	d.mu.Lock()
	d.blocking = blocking
	d.mu.Unlock()
}

func (d *recordingDisplay) ShowWaiting(blocking *model.Blocking, interval time.Duration) {
	d.record("waiting")
	d.mu.Lock()
	d.waiting = append(d.waiting, blocking)
	d.mu.Unlock()
}

func (d *recordingDisplay) ShowPushResult(success bool) {
	d.record("push_result")
	d.mu.Lock()
	d.pushOK = &success
	d.mu.Unlock()
}
