package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, v any) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func TestContactService_SubmitTrimsAndStamps(t *testing.T) {
	p := &MockPublisher{}
	p.On("PublishJSON", mock.Anything, mock.MatchedBy(func(v any) bool {
		msg, ok := v.(ContactMessage)
		return ok &&
			msg.Name == "Ada" &&
			msg.Email == "ada@example.com" &&
			msg.Message == "Hello there, nice work" &&
			!msg.SubmittedAt.IsZero()
	})).Return(nil)

	svc := NewContactService(NewQueueNotifier(p), zap.NewNop())
	err := svc.Submit(context.Background(), ContactMessage{
		Name:    " Ada ",
		Email:   "ada@example.com ",
		Message: "Hello there, nice work\n",
	})
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestContactService_PublishFailure(t *testing.T) {
	p := &MockPublisher{}
	p.On("PublishJSON", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	svc := NewContactService(NewQueueNotifier(p), zap.NewNop())
	err := svc.Submit(context.Background(), ContactMessage{Name: "Ada", Email: "a@b.co", Message: "0123456789"})
	assert.ErrorContains(t, err, "channel closed")
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewContactService(NewLogNotifier(zap.New(core)), zap.NewNop())

	require.NoError(t, svc.Submit(context.Background(), ContactMessage{
		Name: "Ada", Email: "ada@example.com", Message: "Hello there, nice work",
	}))

	entries := logs.FilterMessage("contact form submitted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ada@example.com", entries[0].ContextMap()["email"])
}
