package cli

import (
	"time"

	"github.com/m-mizutani/safepush/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Config is what the command line asks for. Overrides only holds flags the
// user actually passed, so that config file values are not shadowed by
// flag defaults.
type Config struct {
	Wait       bool
	ConfigPath string
	GitArgs    []string
	Overrides  model.Overrides
}

func DefineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "Wait for blocking pipelines to finish before pushing (default)",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "no-wait",
			Usage: "Cancel the push instead of waiting when a pipeline blocks",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "GitLab personal access token",
		},
		&cli.StringFlag{
			Name:  "gitlab-url",
			Usage: "GitLab instance URL",
		},
		&cli.IntFlag{
			Name:  "check-interval",
			Usage: "Seconds between checks while waiting",
			Value: int(model.DefaultCheckInterval / time.Second),
		},
		&cli.StringFlag{
			Name:  "blocking-stage",
			Usage: "Stage whose jobs block the push (enables advanced mode)",
		},
		&cli.StringFlag{
			Name:  "blocking-jobs",
			Usage: "Comma separated job names that block the push (enables advanced mode)",
		},
		&cli.IntFlag{
			Name:  "pre-block-duration",
			Usage: "Seconds a job of the stage before the blocking stage runs before it blocks",
			Value: int(model.DefaultPreBlockDuration / time.Second),
		},
		&cli.IntFlag{
			Name:  "post-block-duration",
			Usage: "Seconds the stage after the blocking stage keeps blocking once started",
			Value: int(model.DefaultPostBlockDuration / time.Second),
		},
		&cli.BoolFlag{
			Name:  "simple-mode",
			Usage: "Block on any running pipeline",
			Value: true,
		},
		&cli.IntFlag{
			Name:  "fetch-timeout",
			Usage: "Seconds allowed for a single GitLab API request",
			Value: int(model.DefaultFetchTimeout / time.Second),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default: ~/.gitlab-safe-push-config.json)",
		},
	}
}

// ParseConfig reads the flags of cmd. Arguments left after the flags are
// passed to git push.
func ParseConfig(cmd *cli.Command) *Config {
	cfg := &Config{
		Wait:       cmd.Bool("wait") && !cmd.Bool("no-wait"),
		ConfigPath: cmd.String("config"),
		GitArgs:    cmd.Args().Slice(),
	}

	if cmd.IsSet("token") {
		cfg.Overrides.Token = ptr(cmd.String("token"))
	}
	if cmd.IsSet("gitlab-url") {
		cfg.Overrides.GitLabURL = ptr(cmd.String("gitlab-url"))
	}
	if cmd.IsSet("blocking-stage") {
		cfg.Overrides.BlockingStage = ptr(cmd.String("blocking-stage"))
	}
	if cmd.IsSet("blocking-jobs") {
		cfg.Overrides.BlockingJobs = ptr(cmd.String("blocking-jobs"))
	}
	if cmd.IsSet("check-interval") {
		cfg.Overrides.CheckInterval = seconds(cmd.Int("check-interval"))
	}
	if cmd.IsSet("pre-block-duration") {
		cfg.Overrides.PreBlockDuration = seconds(cmd.Int("pre-block-duration"))
	}
	if cmd.IsSet("post-block-duration") {
		cfg.Overrides.PostBlockDuration = seconds(cmd.Int("post-block-duration"))
	}
	if cmd.IsSet("fetch-timeout") {
		cfg.Overrides.FetchTimeout = seconds(cmd.Int("fetch-timeout"))
	}
	if cmd.IsSet("simple-mode") {
		cfg.Overrides.SimpleMode = ptr(cmd.Bool("simple-mode"))
	}

	return cfg
}

func ptr[T any](v T) *T {
	return &v
}

func seconds(n int) *time.Duration {
	d := time.Duration(n) * time.Second
	return &d
}
