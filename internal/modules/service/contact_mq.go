package service

import (
	"context"
	"fmt"
)

// JSONPublisher is satisfied by *mq.Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

type queueNotifier struct{ p JSONPublisher }

// NewQueueNotifier hands submissions to a message broker for out-of-band delivery.
func NewQueueNotifier(p JSONPublisher) ContactNotifier {
	return &queueNotifier{p: p}
}

func (n *queueNotifier) Notify(ctx context.Context, msg ContactMessage) error {
	if err := n.p.PublishJSON(ctx, msg); err != nil {
		return fmt.Errorf("publish contact message: %w", err)
	}
	return nil
}
