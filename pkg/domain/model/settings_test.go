package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

func TestParseJobList(t *testing.T) {
	gt.Equal(t, model.ParseJobList("terraform:dev, deploy:dev"), []string{"terraform:dev", "deploy:dev"})
	gt.Equal(t, model.ParseJobList(" a ,, ,b,"), []string{"a", "b"})
	gt.Equal(t, len(model.ParseJobList("")), 0)
}

func TestStatus(t *testing.T) {
	t.Run("active jobs", func(t *testing.T) {
		gt.True(t, model.StatusRunning.IsActiveJob())
		gt.True(t, model.StatusPending.IsActiveJob())
		gt.False(t, model.StatusCreated.IsActiveJob())
		gt.False(t, model.StatusSuccess.IsActiveJob())
		gt.False(t, model.StatusManual.IsActiveJob())
	})

	t.Run("active pipelines", func(t *testing.T) {
		gt.True(t, model.StatusRunning.IsActivePipeline())
		gt.True(t, model.StatusPending.IsActivePipeline())
		gt.True(t, model.StatusCreated.IsActivePipeline())
		gt.False(t, model.StatusFailed.IsActivePipeline())
		gt.False(t, model.StatusCanceled.IsActivePipeline())
	})
}

func TestSettings(t *testing.T) {
	settings := &model.Settings{
		Mode:         model.ModeAdvanced,
		BlockingJobs: []string{"deploy:prod"},
	}
	gt.False(t, settings.IsSimple())
	gt.True(t, settings.IsBlockingJob("deploy:prod"))
	gt.False(t, settings.IsBlockingJob("deploy:dev"))
}

func TestProject(t *testing.T) {
	project := model.Project{Path: "group/sub/app"}
	gt.Equal(t, project.String(), "group/sub/app")
}
