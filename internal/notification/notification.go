// Package notification delivers account emails. The core only depends on
// the Notifier interface; delivery failures are non-fatal by contract.
package notification

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to a recipient address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes messages to the structured logger instead of
// delivering them. Development fallback when no SMTP host is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a logging notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("email notification", "to", to, "subject", subject, "body", body)
	return nil
}
