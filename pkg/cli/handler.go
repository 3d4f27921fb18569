package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func RunPush(ctx context.Context, cmd *cli.Command) error {
	logLevel := slog.LevelWarn
	if cmd.Bool("debug") {
		logLevel = slog.LevelDebug
	} else if cmd.Bool("verbose") {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	ctx = ctxlog.With(ctx, logger)

	config := ParseConfig(cmd)

	fileConfig, err := usecase.NewConfigService().Load(config.ConfigPath)
	if err != nil {
		return goerr.Wrap(err, "failed to load config file", goerr.V("path", config.ConfigPath))
	}

	settings, err := usecase.ResolveSettings(config.Overrides, fileConfig, os.Getenv)
	if err != nil {
		return err
	}

	logger.Debug("settings resolved",
		slog.String("gitlab_url", settings.GitLabURL),
		slog.String("mode", string(settings.Mode)),
		slog.String("blocking_stage", settings.BlockingStage),
		slog.Any("blocking_jobs", settings.BlockingJobs),
		slog.Duration("check_interval", settings.CheckInterval),
		slog.Bool("wait", config.Wait),
	)

	currentDir, err := os.Getwd()
	if err != nil {
		return goerr.Wrap(err, "failed to get working directory")
	}

	fetcher, err := usecase.NewGitLabService(settings)
	if err != nil {
		return err
	}

	push := usecase.NewPushUseCase(usecase.PushUseCaseOptions{
		Git:      usecase.NewGitService(currentDir),
		GitLab:   fetcher,
		Display:  NewConsoleDisplay(os.Stdout, !color.NoColor),
		Hooks:    usecase.NewHookExecutor(&settings.Hooks),
		Settings: settings,
	})

	pushed, err := push.Execute(ctx, usecase.PushOptions{
		Args: config.GitArgs,
		Wait: config.Wait,
	})
	if err != nil {
		return err
	}
	if !pushed {
		return cli.Exit("", 1)
	}
	return nil
}
