package interfaces

import (
	"time"

	"github.com/m-mizutani/safepush/pkg/domain/model"
)

type Display interface {
	ShowTarget(project model.Project, branch string)
	ShowSettings(settings *model.Settings)
	ShowAuthorized()
	ShowCheckFailed(err error)
	ShowCancelled(blocking []*model.Blocking)
	ShowWaitStarted()
	ShowWaiting(blocking *model.Blocking, interval time.Duration)
	ShowCleared()
	// ShowWaitAborted ends the waiting output when the wait stops on an error or cancellation.
	ShowWaitAborted(err error)
	ShowPushing(args []string)
	ShowPushResult(success bool)
}
