// Package notify delivers best-effort operational notices. Delivery
// failures are the caller's to log; they never reach API clients.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

const defaultUsername = "mlapi-bot"

// Notifier is the contract the service layer depends on.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// SlackNotifier posts messages to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	username   string
}

// Option applies a configuration option to the SlackNotifier.
type Option func(*SlackNotifier)

// WithUsername overrides the bot display name.
func WithUsername(name string) Option {
	return func(n *SlackNotifier) {
		if name != "" {
			n.username = name
		}
	}
}

// NewSlack creates a webhook notifier.
func NewSlack(webhookURL string, opts ...Option) *SlackNotifier {
	n := &SlackNotifier{webhookURL: webhookURL, username: defaultUsername}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts one message to the webhook.
func (n *SlackNotifier) Notify(ctx context.Context, message string) error {
	msg := &slack.WebhookMessage{
		Username:  n.username,
		IconEmoji: ":satellite:",
		Attachments: []slack.Attachment{{
			Color: "#9733EE",
			Fields: []slack.AttachmentField{{
				Title: "New Incoming Message :zap:",
				Value: message,
			}},
		}},
	}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	return nil
}

// Noop discards every notification. Used when no webhook is configured.
type Noop struct{}

// Notify implements Notifier.
func (Noop) Notify(context.Context, string) error { return nil }
