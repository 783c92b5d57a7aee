package notify

import (
	"context"

	"go.uber.org/zap"
)

// DryRunNotifier logs the notification that would be sent without
// delivering anything.
type DryRunNotifier struct {
	log *zap.Logger
}

// NewDryRunNotifier creates a dry-run notifier.
func NewDryRunNotifier(log *zap.Logger) *DryRunNotifier {
	return &DryRunNotifier{log: log}
}

// NotifyUpdate logs the rendered message instead of sending it.
func (n *DryRunNotifier) NotifyUpdate(_ context.Context, update Update) error {
	n.log.Info("dry-run notification",
		zap.String("subject", UpdateSubject(update)),
		zap.String("body", UpdateBody(update)))
	return nil
}
