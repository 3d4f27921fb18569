package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// ConsoleDisplay prints progress line by line so that it stays readable when
// safepush runs from a git alias or a hook.
type ConsoleDisplay struct {
	w       io.Writer
	spinner *spinner.Spinner
}

// NewConsoleDisplay writes to w. With animate set, a spinner runs while
// waiting for the next check.
func NewConsoleDisplay(w io.Writer, animate bool) interfaces.Display {
	d := &ConsoleDisplay{w: w}
	if animate {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Suffix = " Waiting for the next check..."
		d.spinner = s
	}
	return d
}

func (d *ConsoleDisplay) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.w, format, args...)
}

func (d *ConsoleDisplay) stopSpinner() {
	if d.spinner != nil && d.spinner.Active() {
		d.spinner.Stop()
	}
}

func (d *ConsoleDisplay) ShowTarget(project model.Project, branch string) {
	d.printf("📋 Project: %s\n", color.New(color.FgHiWhite).Sprint(project.Path))
	d.printf("🌿 Branch: %s\n", color.New(color.FgHiWhite).Sprint(branch))
}

func (d *ConsoleDisplay) ShowSettings(settings *model.Settings) {
	d.printf("⚙️  Configuration:\n")
	if settings.IsSimple() {
		d.printf("  Mode: %s (block on any running pipeline)\n", color.New(color.FgHiYellow).Sprint("Simple"))
	} else {
		d.printf("  Mode: %s\n", color.New(color.FgHiGreen).Sprint("Advanced"))
		if settings.BlockingStage != "" {
			d.printf("  Blocking stage: %s\n", color.New(color.FgHiWhite).Sprint(settings.BlockingStage))
			d.printf("  Pre-block duration: %s\n", formatSeconds(settings.PreBlockDuration))
			d.printf("  Post-block duration: %s\n", formatSeconds(settings.PostBlockDuration))
		}
		if len(settings.BlockingJobs) > 0 {
			d.printf("  Blocking jobs: %s\n", color.New(color.FgHiWhite).Sprint(strings.Join(settings.BlockingJobs, ", ")))
		}
	}
	d.printf("  Check interval: %s\n\n", formatSeconds(settings.CheckInterval))
}

func (d *ConsoleDisplay) ShowAuthorized() {
	d.printf("%s No blocking conditions detected, push authorized!\n", color.GreenString("✅"))
}

func (d *ConsoleDisplay) ShowCheckFailed(err error) {
	d.printf("%s Unable to check pipelines: %v\n", color.YellowString("⚠️"), err)
	d.printf("%s Push authorized with warning\n", color.YellowString("⚠️"))
}

func (d *ConsoleDisplay) ShowCancelled(blocking []*model.Blocking) {
	d.printf("%s Blocking condition detected, push cancelled:\n", color.RedString("❌"))
	for _, b := range blocking {
		d.printf("  Pipeline #%d: %s\n", b.Pipeline.ID, renderReason(b.Reason))
		if b.Pipeline.WebURL != "" {
			d.printf("    %s\n", color.New(color.Faint).Sprint(b.Pipeline.WebURL))
		}
	}
	d.printf("%s Use --wait to wait for completion\n", color.HiBlueString("💡"))
}

func (d *ConsoleDisplay) ShowWaitStarted() {
	d.printf("%s Blocking condition detected. Waiting...\n", color.YellowString("⏳"))
}

func (d *ConsoleDisplay) ShowWaiting(blocking *model.Blocking, interval time.Duration) {
	d.stopSpinner()
	d.printf("%s Pipeline #%d - %s\n", color.YellowString("⏳"), blocking.Pipeline.ID, renderReason(blocking.Reason))
	d.printf("   Next check in %d seconds...\n", int64(interval/time.Second))
	if d.spinner != nil {
		d.spinner.Start()
	}
}

func (d *ConsoleDisplay) ShowCleared() {
	d.stopSpinner()
	d.printf("%s No more blocking conditions, push authorized!\n", color.GreenString("✅"))
}

func (d *ConsoleDisplay) ShowWaitAborted(err error) {
	d.stopSpinner()
	if errors.Is(err, context.Canceled) {
		d.printf("%s Wait cancelled, push not executed\n", color.RedString("❌"))
		return
	}
	d.printf("%s Wait aborted, push not executed: %v\n", color.RedString("❌"), err)
}

func (d *ConsoleDisplay) ShowPushing(args []string) {
	d.stopSpinner()
	d.printf("%s Executing: %s\n", color.HiGreenString("🚀"), strings.Join(append([]string{"git", "push"}, args...), " "))
}

func (d *ConsoleDisplay) ShowPushResult(success bool) {
	if success {
		d.printf("%s Push completed successfully!\n", color.GreenString("✅"))
		return
	}
	d.printf("%s Push failed\n", color.RedString("❌"))
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int64(d/time.Second))
}

// reasonRenderer highlights the stage or job a reason names. Without colors
// the line reads the same as the reason's String.
type reasonRenderer struct {
	text string
}

func (r *reasonRenderer) VisitSimpleMode(reason model.SimpleMode) {
	r.text = reason.String()
}

func (r *reasonRenderer) VisitBlockingStageRunning(reason model.BlockingStageRunning) {
	r.text = model.BlockingStageRunning{Stage: color.HiCyanString(reason.Stage)}.String()
}

func (r *reasonRenderer) VisitBlockingJobRunning(reason model.BlockingJobRunning) {
	r.text = model.BlockingJobRunning{Job: color.HiCyanString(reason.Job)}.String()
}

func (r *reasonRenderer) VisitPreBlockingStage(reason model.PreBlockingStage) {
	r.text = model.PreBlockingStage{Stage: color.HiCyanString(reason.Stage), Seconds: reason.Seconds}.String()
}

func renderReason(reason model.BlockingReason) string {
	r := &reasonRenderer{}
	reason.Accept(r)
	return r.text
}
