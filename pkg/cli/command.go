package cli

import (
	"github.com/urfave/cli/v3"
)

func NewCommand() *cli.Command {
	flags := append(DefineFlags(),
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose logging",
			Value: false,
		},
	)

	return &cli.Command{
		Name:      "safepush",
		Usage:     "git push that waits for GitLab deployments to finish",
		Version:   "0.1.0",
		ArgsUsage: "[--] [git push arguments...]",
		Description: `safepush checks the GitLab pipelines of the current branch before running git push.

In simple mode any running pipeline blocks the push. With --blocking-stage or
--blocking-jobs only the deployment part of a pipeline blocks it. By default
safepush waits until nothing blocks and then pushes; --no-wait cancels instead.

Arguments after -- are passed to git push as is:
  safepush --blocking-stage deploy -- origin main --force-with-lease`,
		Flags:  flags,
		Action: RunPush,
		Commands: []*cli.Command{
			NewConfigCommand(),
		},
	}
}
