package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/safepush/pkg/cli"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// syncBuffer is written by the spinner goroutine while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// newTestBuffer disables colors for the duration of the test.
func newTestBuffer(t *testing.T) *strings.Builder {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	return &strings.Builder{}
}

func TestConsoleDisplay(t *testing.T) {
	t.Run("settings in advanced mode", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowSettings(&model.Settings{
			Mode:              model.ModeAdvanced,
			BlockingStage:     "deploy",
			BlockingJobs:      []string{"terraform:dev", "deploy:dev"},
			PreBlockDuration:  15 * time.Second,
			PostBlockDuration: 5 * time.Second,
			CheckInterval:     30 * time.Second,
		})

		out := buf.String()
		gt.True(t, strings.Contains(out, "Mode: Advanced"))
		gt.True(t, strings.Contains(out, "Blocking stage: deploy"))
		gt.True(t, strings.Contains(out, "Pre-block duration: 15s"))
		gt.True(t, strings.Contains(out, "Post-block duration: 5s"))
		gt.True(t, strings.Contains(out, "Blocking jobs: terraform:dev, deploy:dev"))
		gt.True(t, strings.Contains(out, "Check interval: 30s"))
	})

	t.Run("settings in simple mode", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowSettings(&model.Settings{Mode: model.ModeSimple, CheckInterval: 10 * time.Second})

		out := buf.String()
		gt.True(t, strings.Contains(out, "Mode: Simple (block on any running pipeline)"))
		gt.False(t, strings.Contains(out, "Blocking stage"))
	})

	t.Run("cancelled lists every blocking pipeline", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowCancelled([]*model.Blocking{
			{Pipeline: &model.Pipeline{ID: 12}, Reason: model.BlockingStageRunning{Stage: "deploy"}},
			{Pipeline: &model.Pipeline{ID: 11}, Reason: model.PreBlockingStage{Stage: "test", Seconds: 20}},
			{Pipeline: &model.Pipeline{ID: 10}, Reason: model.BlockingJobRunning{Job: "terraform:dev"}},
		})

		out := buf.String()
		gt.True(t, strings.Contains(out, "push cancelled"))
		gt.True(t, strings.Contains(out, "Pipeline #12: Blocking stage 'deploy' is running"))
		gt.True(t, strings.Contains(out, "Pipeline #11: Stage 'test' running for 20s (approaching blocking stage)"))
		gt.True(t, strings.Contains(out, "Pipeline #10: Blocking job 'terraform:dev' is running"))
		gt.True(t, strings.Contains(out, "Use --wait to wait for completion"))
	})

	t.Run("waiting shows the first reason and the interval", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowWaiting(&model.Blocking{
			Pipeline: &model.Pipeline{ID: 7},
			Reason:   model.BlockingStageRunning{Stage: model.PostBlockStage("verify")},
		}, 30*time.Second)
		display.ShowCleared()

		out := buf.String()
		gt.True(t, strings.Contains(out, "Pipeline #7 - Blocking stage 'verify (post-block)' is running"))
		gt.True(t, strings.Contains(out, "Next check in 30 seconds..."))
		gt.True(t, strings.Contains(out, "No more blocking conditions, push authorized!"))
	})

	t.Run("check failure and push outcome", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowCheckFailed(errors.New("GitLab API error: 500 Internal Server Error"))
		display.ShowPushing([]string{"origin", "main"})
		display.ShowPushResult(false)

		out := buf.String()
		gt.True(t, strings.Contains(out, "Unable to check pipelines: GitLab API error: 500 Internal Server Error"))
		gt.True(t, strings.Contains(out, "Push authorized with warning"))
		gt.True(t, strings.Contains(out, "Executing: git push origin main"))
		gt.True(t, strings.Contains(out, "Push failed"))
	})
}

func TestConsoleDisplayWaitAborted(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowWaitAborted(errors.New("GitLab API request failed"))
		gt.True(t, strings.Contains(buf.String(), "Wait aborted, push not executed: GitLab API request failed"))
	})

	t.Run("cancellation", func(t *testing.T) {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)

		display.ShowWaitAborted(context.Canceled)
		gt.True(t, strings.Contains(buf.String(), "Wait cancelled, push not executed"))
	})

	t.Run("stops the spinner", func(t *testing.T) {
		buf := &syncBuffer{}
		display := cli.NewConsoleDisplay(buf, true)

		display.ShowWaiting(&model.Blocking{
			Pipeline: &model.Pipeline{ID: 3},
			Reason:   model.SimpleMode{},
		}, time.Minute)
		time.Sleep(250 * time.Millisecond)
		display.ShowWaitAborted(context.Canceled)

		size := buf.Len()
		time.Sleep(250 * time.Millisecond)
		gt.Equal(t, buf.Len(), size)
	})
}

func TestReasonRenderingHighlightsNames(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	buf := &strings.Builder{}
	display := cli.NewConsoleDisplay(buf, false)
	display.ShowWaiting(&model.Blocking{
		Pipeline: &model.Pipeline{ID: 1},
		Reason:   model.BlockingJobRunning{Job: "deploy:prod"},
	}, time.Second)

	out := buf.String()
	gt.True(t, strings.Contains(out, color.HiCyanString("deploy:prod")))
	gt.False(t, strings.Contains(out, model.BlockingJobRunning{Job: "deploy:prod"}.String()))
}

func TestReasonRenderingMatchesReasonText(t *testing.T) {
	reasons := []model.BlockingReason{
		model.SimpleMode{},
		model.BlockingStageRunning{Stage: "deploy"},
		model.BlockingJobRunning{Job: "deploy:prod"},
		model.PreBlockingStage{Stage: "test", Seconds: 42},
	}

	for _, reason := range reasons {
		buf := newTestBuffer(t)
		display := cli.NewConsoleDisplay(buf, false)
		display.ShowWaiting(&model.Blocking{Pipeline: &model.Pipeline{ID: 1}, Reason: reason}, time.Second)
		gt.True(t, strings.Contains(buf.String(), reason.String()))
	}
}
