package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// NewConfigCommand creates a new config command
func NewConfigCommand() *cli.Command {
	return newConfigCommand(usecase.NewConfigService())
}

func newConfigCommand(service interfaces.ConfigService) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage safepush configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Generate configuration template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for config file (default: ~/.gitlab-safe-push-config.json)",
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Force overwrite existing file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return configInitAction(cmd, service)
				},
			},
		},
	}
}

func configInitAction(cmd *cli.Command, service interfaces.ConfigService) error {
	outputPath := cmd.String("output")
	if outputPath == "" {
		// YAML is a superset of JSON, so the template loads from the .json default too.
		outputPath = service.GetDefaultPath()
	}

	if err := service.SaveTemplate(outputPath, cmd.Bool("force")); err != nil {
		return fmt.Errorf("failed to create config template: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.Root().Writer, "Config template written to %s\n", outputPath)
	return nil
}
