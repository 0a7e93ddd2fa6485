package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/go-resty/resty/v2"
)

// ErrNoWebhook is returned when neither the trip nor the defaults name a webhook.
var ErrNoWebhook = errors.New("no slack webhook URL configured")

// SlackNotifier posts formatted alerts to Slack incoming webhooks.
type SlackNotifier struct {
	client *resty.Client
}

var _ contract.Notifier = &SlackNotifier{} // Compile-time check

// NewSlackNotifier creates a notifier whose posts time out after timeout.
func NewSlackNotifier(timeout time.Duration) *SlackNotifier {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	return &SlackNotifier{client: client}
}

// Notify formats the alert and posts it to webhookURL.
func (n *SlackNotifier) Notify(ctx context.Context, webhookURL string, alert schema.AlertContent) error {
	return n.Send(ctx, webhookURL, FormatMessage(alert))
}

type slackPayload struct {
	Text   string `json:"text"`
	Mrkdwn bool   `json:"mrkdwn"`
}

// Send posts preformatted text. Anything other than 200 OK is a failure.
func (n *SlackNotifier) Send(ctx context.Context, webhookURL, text string) error {
	if webhookURL == "" {
		return &schema.NotificationError{Err: ErrNoWebhook}
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(slackPayload{Text: text, Mrkdwn: true}).
		Post(webhookURL)
	if err != nil {
		return &schema.NotificationError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &schema.NotificationError{StatusCode: resp.StatusCode()}
	}
	return nil
}

// DryRunNotifier writes alerts to Out instead of posting them.
type DryRunNotifier struct {
	Out io.Writer
}

var _ contract.Notifier = &DryRunNotifier{} // Compile-time check

// Notify implements the Notifier interface.
func (n *DryRunNotifier) Notify(_ context.Context, webhookURL string, alert schema.AlertContent) error {
	note := ""
	if webhookURL == "" {
		note = " (no webhook configured)"
	}
	_, err := fmt.Fprintf(n.Out, "[dry-run] alert for %s%s\n%s\n", alert.Label, note, FormatMessage(alert))
	return err
}
