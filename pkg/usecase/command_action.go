package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

const defaultCommandTimeout = 30 * time.Second

type commandAction struct{}

// NewCommandAction creates a new CommandAction instance
func NewCommandAction() interfaces.ActionExecutor {
	return &commandAction{}
}

// Execute runs a command with the event exported as SAFEPUSH_* variables
func (c *commandAction) Execute(ctx context.Context, action model.Action, event model.PushEvent) error {
	logger := ctxlog.From(ctx)

	cmdAction, err := action.ToCommandAction()
	if err != nil {
		return goerr.Wrap(err, "failed to parse command action")
	}

	env := append(os.Environ(), eventEnv(event)...)
	env = append(env, cmdAction.Env...)

	timeout := cmdAction.Timeout
	if timeout == 0 {
		timeout = defaultCommandTimeout
	}

	if err := c.executeCommand(ctx, cmdAction, env, timeout); err != nil {
		return goerr.Wrap(err, "command execution failed",
			goerr.V("command", cmdAction.Command),
			goerr.V("args", cmdAction.Args),
		)
	}

	logger.Debug("Command executed successfully",
		slog.String("command", cmdAction.Command),
		slog.Any("args", cmdAction.Args),
	)
	return nil
}

// eventEnv describes the event as environment variables
func eventEnv(event model.PushEvent) []string {
	return []string{
		"SAFEPUSH_EVENT_TYPE=" + string(event.Type),
		"SAFEPUSH_PROJECT=" + event.Project,
		"SAFEPUSH_BRANCH=" + event.Branch,
		"SAFEPUSH_PIPELINE_ID=" + strconv.FormatUint(event.PipelineID, 10),
		"SAFEPUSH_REASON=" + event.Reason,
		"SAFEPUSH_PIPELINE_URL=" + event.URL,
	}
}

func (c *commandAction) executeCommand(ctx context.Context, cmdAction *model.CommandAction, env []string, timeout time.Duration) error {
	logger := ctxlog.From(ctx)

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Variables resolve against the command environment, so $SAFEPUSH_* works in args.
	command := expandPath(expandWith(cmdAction.Command, env))
	args := make([]string, len(cmdAction.Args))
	for i, arg := range cmdAction.Args {
		args[i] = expandWith(arg, env)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" && strings.HasSuffix(strings.ToLower(command), ".ps1") {
		psArgs := append([]string{"-ExecutionPolicy", "Bypass", "-File", command}, args...)
		cmd = exec.CommandContext(cmdCtx, "powershell", psArgs...) // #nosec G204 - command is from config file
	} else {
		cmd = exec.CommandContext(cmdCtx, command, args...) // #nosec G204 - command is from config file
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Executing command",
		slog.String("command", command),
		slog.Any("args", args),
		slog.Duration("timeout", timeout),
	)

	err := cmd.Run()

	if stdout.Len() > 0 {
		logger.Debug("Command stdout",
			slog.String("command", command),
			slog.String("stdout", stdout.String()),
		)
	}

	if err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return goerr.New(fmt.Sprintf("command timed out after %s", timeout))
		}
		errMsg := fmt.Sprintf("command failed: %v", err)
		if stderr.Len() > 0 {
			errMsg += fmt.Sprintf(", stderr: %s", stderr.String())
		}
		return goerr.New(errMsg)
	}

	return nil
}

// expandWith expands $VAR and ${VAR} using env (KEY=VALUE entries, last one wins)
func expandWith(s string, env []string) string {
	values := make(map[string]string, len(env))
	for _, kv := range env {
		if key, value, ok := strings.Cut(kv, "="); ok {
			values[key] = value
		}
	}
	return os.Expand(s, func(key string) string {
		return values[key]
	})
}

// expandPath expands a leading ~ to the home directory
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
