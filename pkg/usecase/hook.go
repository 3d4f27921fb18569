package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

type hookExecutor struct {
	hooks   *model.HooksConfig
	actions map[string]interfaces.ActionExecutor
	wg      sync.WaitGroup
}

// NewHookExecutor creates a new HookExecutor instance
func NewHookExecutor(hooks *model.HooksConfig) interfaces.HookExecutor {
	return &hookExecutor{
		hooks: hooks,
		actions: map[string]interfaces.ActionExecutor{
			"command": NewCommandAction(),
			"slack":   NewSlackAction(),
			"notify":  NewNotifyAction(),
		},
	}
}

// Execute starts the actions configured for the event and returns without
// waiting for them. Action failures are logged only.
func (h *hookExecutor) Execute(ctx context.Context, event model.PushEvent) error {
	logger := ctxlog.From(ctx)

	for _, action := range h.getActionsForEvent(event.Type) {
		h.wg.Add(1)
		go func(a model.Action) {
			defer h.wg.Done()
			if err := h.executeAction(ctx, a, event); err != nil {
				logger.Warn("Failed to execute hook action",
					slog.String("type", a.Type),
					slog.String("event", string(event.Type)),
					slog.String("error", err.Error()),
				)
			}
		}(action)
	}

	return nil
}

func (h *hookExecutor) WaitForCompletion() {
	h.wg.Wait()
}

// getActionsForEvent returns actions configured for the given event type
func (h *hookExecutor) getActionsForEvent(eventType model.HookEvent) []model.Action {
	if h.hooks == nil {
		return nil
	}

	switch eventType {
	case model.HookBlocked:
		return h.hooks.Blocked
	case model.HookCleared:
		return h.hooks.Cleared
	case model.HookPushed:
		return h.hooks.Pushed
	case model.HookPushFailed:
		return h.hooks.PushFailed
	default:
		return nil
	}
}

func (h *hookExecutor) executeAction(ctx context.Context, action model.Action, event model.PushEvent) error {
	executor, ok := h.actions[action.Type]
	if !ok {
		ctxlog.From(ctx).Warn("Unknown action type",
			slog.String("type", action.Type),
		)
		return nil
	}

	return executor.Execute(ctx, action, event)
}

// eventTemplateData is the data available to message templates of hook actions.
type eventTemplateData struct {
	Event      string
	Project    string
	Branch     string
	PipelineID uint64
	Reason     string
	URL        string
}

func newEventTemplateData(event model.PushEvent) eventTemplateData {
	return eventTemplateData{
		Event:      string(event.Type),
		Project:    event.Project,
		Branch:     event.Branch,
		PipelineID: event.PipelineID,
		Reason:     event.Reason,
		URL:        event.URL,
	}
}
