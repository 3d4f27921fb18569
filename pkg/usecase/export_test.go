package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
)

var (
	ParseProjectPath = parseProjectPath
	ExpandWith       = expandWith
	BuildMessage     = buildMessage
	MaskWebhookURL   = maskWebhookURL
)

// NewConfigServiceWithHome resolves the default config path under homeDir
func NewConfigServiceWithHome(homeDir string) interfaces.ConfigService {
	return &configService{homeDir: homeDir}
}

// NewSlackActionWithBackoff shortens the retry backoff
func NewSlackActionWithBackoff(backoff time.Duration) interfaces.ActionExecutor {
	action := NewSlackAction().(*slackAction)
	action.backoff = backoff
	return action
}

// NotifyCall is one notifier invocation recorded by NewNotifyActionWithRunner
type NotifyCall struct {
	Name string
	Args []string
}

// NewNotifyActionWithRunner replaces the OS and the process runner
func NewNotifyActionWithRunner(goos string, calls *[]NotifyCall, runErr error) interfaces.ActionExecutor {
	return &notifyAction{
		goos: goos,
		run: func(ctx context.Context, name string, args ...string) error {
			*calls = append(*calls, NotifyCall{Name: name, Args: args})
			return runErr
		},
	}
}
