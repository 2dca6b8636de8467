package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ContactMessage is a contact form submission. It is handed to a notifier and never stored.
type ContactMessage struct {
	Name        string    `form:"name" json:"name" binding:"required,min=2"`
	Email       string    `form:"email" json:"email" binding:"required,email"`
	Message     string    `form:"message" json:"message" binding:"required,min=10"`
	SubmittedAt time.Time `form:"-" json:"submittedAt"`
}

type ContactNotifier interface {
	Notify(ctx context.Context, msg ContactMessage) error
}

type ContactService interface {
	Submit(ctx context.Context, msg ContactMessage) error
}

type contactService struct {
	n   ContactNotifier
	log *zap.Logger
}

func NewContactService(n ContactNotifier, log *zap.Logger) ContactService {
	return &contactService{n: n, log: log}
}

func (s *contactService) Submit(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.SubmittedAt.IsZero() {
		msg.SubmittedAt = time.Now().UTC()
	}
	if err := s.n.Notify(ctx, msg); err != nil {
		s.log.Sugar().Errorw("contact notification failed", "email", msg.Email, "err", err)
		return err
	}
	return nil
}

type logNotifier struct{ log *zap.Logger }

// NewLogNotifier records submissions in the application log only.
func NewLogNotifier(log *zap.Logger) ContactNotifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(_ context.Context, msg ContactMessage) error {
	n.log.Sugar().Infow("contact form submitted",
		"name", msg.Name,
		"email", msg.Email,
		"length", len(msg.Message),
	)
	return nil
}
