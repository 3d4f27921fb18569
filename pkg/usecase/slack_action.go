package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

const slackMaxAttempts = 3

type slackAction struct {
	httpClient *http.Client
	backoff    time.Duration
}

// NewSlackAction creates a new SlackAction instance
func NewSlackAction() interfaces.ActionExecutor {
	return &slackAction{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		backoff: time.Second,
	}
}

type slackPayload struct {
	Text        string            `json:"text"`
	UserName    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color     string `json:"color,omitempty"`
	Text      string `json:"text,omitempty"`
	TitleLink string `json:"title_link,omitempty"`
	Footer    string `json:"footer,omitempty"`
	Timestamp int64  `json:"ts,omitempty"`
}

// slackStatusError carries the webhook response status so that retries can
// be limited to rate limiting and server errors.
type slackStatusError struct {
	status int
	body   string
}

func (e *slackStatusError) Error() string {
	return fmt.Sprintf("slack webhook returned status %d: %s", e.status, e.body)
}

func (e *slackStatusError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// Execute sends a notification to Slack
func (s *slackAction) Execute(ctx context.Context, action model.Action, event model.PushEvent) error {
	logger := ctxlog.From(ctx)

	slackAction, err := action.ToSlackAction()
	if err != nil {
		return goerr.Wrap(err, "failed to parse slack action")
	}

	webhookURL := os.ExpandEnv(slackAction.WebhookURL)
	if webhookURL == "" {
		return goerr.New("webhook URL is empty after expansion")
	}

	message, err := buildMessage(slackAction.Message, event)
	if err != nil {
		return goerr.Wrap(err, "failed to build message")
	}

	payload := slackPayload{
		Text:      message,
		UserName:  slackAction.UserName,
		IconEmoji: slackAction.IconEmoji,
	}
	if slackAction.Color != "" {
		payload.Attachments = []slackAttachment{
			{
				Color:     slackAction.Color,
				Text:      message,
				TitleLink: event.URL,
				Footer:    fmt.Sprintf("safepush - %s", event.Project),
				Timestamp: time.Now().Unix(),
			},
		}
		payload.Text = ""
	}

	for attempt := 1; ; attempt++ {
		err = s.sendToSlack(ctx, webhookURL, payload)
		if err == nil {
			logger.Debug("Slack notification sent", slog.Int("attempt", attempt))
			return nil
		}

		statusErr, ok := err.(*slackStatusError)
		if attempt >= slackMaxAttempts || (ok && !statusErr.retryable()) {
			break
		}

		backoff := s.backoff * time.Duration(1<<(attempt-1))
		logger.Warn("Failed to send Slack notification, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "slack notification cancelled")
		case <-time.After(backoff):
		}
	}

	return goerr.Wrap(err, "failed to send slack notification",
		goerr.V("webhook_url", maskWebhookURL(webhookURL)))
}

// buildMessage renders a text/template message with the event data
func buildMessage(messageTemplate string, event model.PushEvent) (string, error) {
	tmpl, err := template.New("message").Parse(messageTemplate)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse message template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newEventTemplateData(event)); err != nil {
		return "", goerr.Wrap(err, "failed to execute message template")
	}

	return buf.String(), nil
}

func (s *slackAction) sendToSlack(ctx context.Context, webhookURL string, payload slackPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal slack payload")
	}

	ctxlog.From(ctx).Debug("Sending to Slack",
		slog.String("webhook_url", maskWebhookURL(webhookURL)),
		slog.String("payload", string(jsonData)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &slackStatusError{status: resp.StatusCode, body: string(body)}
	}

	return nil
}

// maskWebhookURL hides the secret part of a webhook URL for logging
func maskWebhookURL(url string) string {
	if strings.Contains(url, "hooks.slack.com") {
		parts := strings.Split(url, "/")
		if len(parts) > 3 {
			for i := len(parts) - 3; i < len(parts); i++ {
				if len(parts[i]) > 4 {
					parts[i] = parts[i][:2] + "***"
				}
			}
			return strings.Join(parts, "/")
		}
	}
	if len(url) > 20 {
		return url[:20] + "***"
	}
	return "***"
}
