package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the content of the configuration file. Every field is
// optional; unset fields fall through to environment variables and defaults.
// Durations are whole seconds.
type FileConfig struct {
	Token             *string     `yaml:"token" toml:"token"`
	GitLabURL         *string     `yaml:"gitlab_url" toml:"gitlab_url"`
	BlockingStage     *string     `yaml:"blocking_stage" toml:"blocking_stage"`
	BlockingJobs      JobList     `yaml:"blocking_jobs" toml:"blocking_jobs"`
	PreBlockDuration  *uint64     `yaml:"pre_block_duration" toml:"pre_block_duration"`
	PostBlockDuration *uint64     `yaml:"post_block_duration" toml:"post_block_duration"`
	CheckInterval     *uint64     `yaml:"check_interval" toml:"check_interval"`
	FetchTimeout      *uint64     `yaml:"fetch_timeout" toml:"fetch_timeout"`
	PerPage           *int        `yaml:"per_page" toml:"per_page"`
	SimpleMode        *bool       `yaml:"simple_mode" toml:"simple_mode"`
	Hooks             HooksConfig `yaml:"hooks" toml:"hooks"`
}

// JobList accepts either a comma separated string or a list of names.
type JobList []string

func (l *JobList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = ParseJobList(node.Value)
		return nil
	case yaml.SequenceNode:
		var jobs []string
		if err := node.Decode(&jobs); err != nil {
			return goerr.Wrap(err, "blocking_jobs must be a list of strings")
		}
		*l = jobs
		return nil
	default:
		return goerr.New("blocking_jobs must be a string or a list", goerr.V("line", node.Line))
	}
}

func (l *JobList) UnmarshalTOML(v any) error {
	switch jobs := v.(type) {
	case string:
		*l = ParseJobList(jobs)
		return nil
	case []any:
		list := make(JobList, 0, len(jobs))
		for _, job := range jobs {
			name, ok := job.(string)
			if !ok {
				return goerr.New("blocking_jobs must be a list of strings")
			}
			list = append(list, name)
		}
		*l = list
		return nil
	default:
		return goerr.New("blocking_jobs must be a string or a list", goerr.V("type", fmt.Sprintf("%T", v)))
	}
}

// HooksConfig defines hooks for push lifecycle events
type HooksConfig struct {
	Blocked    []Action `yaml:"blocked,omitempty" toml:"blocked"`
	Cleared    []Action `yaml:"cleared,omitempty" toml:"cleared"`
	Pushed     []Action `yaml:"pushed,omitempty" toml:"pushed"`
	PushFailed []Action `yaml:"push_failed,omitempty" toml:"push_failed"`
}

// Action represents an action to be executed
type Action struct {
	Type string                 `yaml:"type"` // "command", "slack", "notify"
	Data map[string]interface{} `yaml:",inline"`
}

// UnmarshalTOML mirrors the inline layout used for YAML: "type" selects the
// action, every other key of the table is action data.
func (a *Action) UnmarshalTOML(v any) error {
	table, ok := v.(map[string]any)
	if !ok {
		return goerr.New("hook action must be a table")
	}

	actionType, ok := table["type"].(string)
	if !ok {
		return goerr.New("hook action requires 'type' field")
	}

	a.Type = actionType
	a.Data = make(map[string]interface{}, len(table))
	for key, value := range table {
		if key != "type" {
			a.Data[key] = value
		}
	}
	return nil
}

// CommandAction represents a command execution action
type CommandAction struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Env     []string      `yaml:"env,omitempty"` // Additional environment variables
}

// SlackAction represents a Slack notification action
type SlackAction struct {
	WebhookURL string `yaml:"webhook_url"`
	Message    string `yaml:"message"`
	Color      string `yaml:"color,omitempty"`      // good, warning, danger, or #hex
	IconEmoji  string `yaml:"icon_emoji,omitempty"` // only honoured if the webhook allows customization
	UserName   string `yaml:"username,omitempty"`
}

// NotifyAction represents a desktop notification action
type NotifyAction struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
	Sound   *bool  `yaml:"sound,omitempty"`
}

// ToCommandAction converts Action to CommandAction for type safety
func (a *Action) ToCommandAction() (*CommandAction, error) {
	if a.Type != "command" {
		return nil, goerr.New("action is not a command type")
	}

	command, ok := a.Data["command"].(string)
	if !ok || command == "" {
		return nil, goerr.New("command action requires 'command' field")
	}

	cmdAction := &CommandAction{
		Command: command,
	}

	if argsValue, ok := a.Data["args"]; ok {
		args, err := toStringSlice(argsValue)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid command action 'args'")
		}
		cmdAction.Args = args
	}

	if timeoutValue, ok := a.Data["timeout"]; ok {
		switch v := timeoutValue.(type) {
		case string:
			timeout, err := time.ParseDuration(v)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid timeout format", goerr.V("timeout", v))
			}
			cmdAction.Timeout = timeout
		case time.Duration:
			cmdAction.Timeout = v
		default:
			return nil, goerr.New("command action 'timeout' must be a duration string")
		}
	}

	if envValue, ok := a.Data["env"]; ok {
		env, err := toStringSlice(envValue)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid command action 'env'")
		}
		cmdAction.Env = env
	}

	return cmdAction, nil
}

// ToSlackAction converts Action to SlackAction for type safety
func (a *Action) ToSlackAction() (*SlackAction, error) {
	if a.Type != "slack" {
		return nil, goerr.New("action is not a slack type")
	}

	webhookURL, ok := a.Data["webhook_url"].(string)
	if !ok || webhookURL == "" {
		return nil, goerr.New("slack action requires 'webhook_url' field")
	}

	message, ok := a.Data["message"].(string)
	if !ok || message == "" {
		return nil, goerr.New("slack action requires 'message' field")
	}

	slackAction := &SlackAction{
		WebhookURL: webhookURL,
		Message:    message,
	}

	if color, ok := a.Data["color"].(string); ok {
		slackAction.Color = color
	}
	if iconEmoji, ok := a.Data["icon_emoji"].(string); ok {
		slackAction.IconEmoji = iconEmoji
	}
	if userName, ok := a.Data["username"].(string); ok {
		slackAction.UserName = userName
	}

	return slackAction, nil
}

// ToNotifyAction converts Action to NotifyAction for type safety
func (a *Action) ToNotifyAction() (*NotifyAction, error) {
	if a.Type != "notify" {
		return nil, goerr.New("action is not a notify type")
	}

	message, ok := a.Data["message"].(string)
	if !ok || message == "" {
		return nil, goerr.New("notify action requires 'message' field")
	}

	notifyAction := &NotifyAction{
		Title:   "safepush",
		Message: message,
	}

	if title, ok := a.Data["title"].(string); ok && title != "" {
		notifyAction.Title = title
	}
	if sound, ok := a.Data["sound"].(bool); ok {
		notifyAction.Sound = &sound
	}

	return notifyAction, nil
}

func toStringSlice(v any) ([]string, error) {
	switch values := v.(type) {
	case []string:
		return values, nil
	case []interface{}:
		out := make([]string, len(values))
		for i, value := range values {
			s, ok := value.(string)
			if !ok {
				return nil, goerr.New("must be string array")
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, goerr.New("must be an array")
	}
}
