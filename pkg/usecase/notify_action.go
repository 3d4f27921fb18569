package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

type notifyAction struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewNotifyAction creates a new NotifyAction instance
func NewNotifyAction() interfaces.ActionExecutor {
	return &notifyAction{
		goos: runtime.GOOS,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run() // #nosec G204 - args are built from config data
		},
	}
}

// Execute sends a desktop notification
func (n *notifyAction) Execute(ctx context.Context, action model.Action, event model.PushEvent) error {
	logger := ctxlog.From(ctx)

	notifyAction, err := action.ToNotifyAction()
	if err != nil {
		return goerr.Wrap(err, "failed to parse notify action")
	}

	title, err := buildMessage(notifyAction.Title, event)
	if err != nil {
		return goerr.Wrap(err, "failed to build notification title")
	}
	message, err := buildMessage(notifyAction.Message, event)
	if err != nil {
		return goerr.Wrap(err, "failed to build notification message")
	}

	playSound := true
	if notifyAction.Sound != nil {
		playSound = *notifyAction.Sound
	}

	name, args, ok := n.command(title, message, playSound)
	if !ok {
		logger.Warn("notifications not supported on this OS", slog.String("os", n.goos))
		return nil
	}

	if err := n.run(ctx, name, args...); err != nil {
		return goerr.Wrap(err, "failed to send notification",
			goerr.V("os", n.goos),
			goerr.V("command", name),
			goerr.V("title", title),
		)
	}

	logger.Debug("notification sent",
		slog.String("title", title),
		slog.String("message", message),
	)
	return nil
}

// command returns the notifier invocation for the current OS
func (n *notifyAction) command(title, message string, playSound bool) (string, []string, bool) {
	switch n.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(message), escapeAppleScript(title))
		if playSound {
			script += ` sound name "Glass"`
		}
		return "osascript", []string{"-e", script}, true

	case "linux":
		return "notify-send", []string{title, message}, true

	case "windows":
		script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$notification = New-Object System.Windows.Forms.NotifyIcon
$notification.Icon = [System.Drawing.SystemIcons]::Information
$notification.BalloonTipIcon = 'Info'
$notification.BalloonTipTitle = '%s'
$notification.BalloonTipText = '%s'
$notification.Visible = $true
$notification.ShowBalloonTip(10000)
`, escapePS(title), escapePS(message))
		return "powershell", []string{"-Command", script}, true

	default:
		return "", nil, false
	}
}

// escapeAppleScript escapes special characters for AppleScript
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// escapePS escapes special characters for PowerShell
func escapePS(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
