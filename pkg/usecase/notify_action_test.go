package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/safepush/pkg/domain/model"
	"github.com/m-mizutani/safepush/pkg/usecase"
)

func TestNotifyAction(t *testing.T) {
	action := model.Action{
		Type: "notify",
		Data: map[string]any{
			"title":   "{{.Project}}",
			"message": `Pushed "{{.Branch}}"`,
		},
	}
	event := model.PushEvent{Type: model.HookPushed, Project: "group/app", Branch: "main"}

	t.Run("linux uses notify-send", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("linux", &calls, nil)

		gt.NoError(t, executor.Execute(context.Background(), action, event))
		gt.Equal(t, calls, []usecase.NotifyCall{
			{Name: "notify-send", Args: []string{"group/app", `Pushed "main"`}},
		})
	})

	t.Run("darwin escapes AppleScript and plays sound", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("darwin", &calls, nil)

		gt.NoError(t, executor.Execute(context.Background(), action, event))
		gt.Equal(t, len(calls), 1)
		gt.Equal(t, calls[0].Name, "osascript")
		gt.Equal(t, calls[0].Args, []string{
			"-e", `display notification "Pushed \"main\"" with title "group/app" sound name "Glass"`,
		})
	})

	t.Run("darwin without sound", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("darwin", &calls, nil)
		silent := model.Action{
			Type: "notify",
			Data: map[string]any{"message": "done", "sound": false},
		}

		gt.NoError(t, executor.Execute(context.Background(), silent, event))
		gt.Equal(t, calls[0].Args, []string{"-e", `display notification "done" with title "safepush"`})
	})

	t.Run("unsupported OS is a no-op", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("plan9", &calls, nil)

		gt.NoError(t, executor.Execute(context.Background(), action, event))
		gt.Equal(t, len(calls), 0)
	})

	t.Run("runner failure is returned", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("linux", &calls, errors.New("notify-send not found"))

		gt.Error(t, executor.Execute(context.Background(), action, event))
	})

	t.Run("missing message is rejected", func(t *testing.T) {
		var calls []usecase.NotifyCall
		executor := usecase.NewNotifyActionWithRunner("linux", &calls, nil)

		err := executor.Execute(context.Background(), model.Action{Type: "notify", Data: map[string]any{}}, event)
		gt.Error(t, err)
		gt.Equal(t, len(calls), 0)
	})
}
