package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

type capturingNotifier struct {
	sent []sentNotification
	err  error
}

type sentNotification struct {
	to      string
	subject string
}

func (c *capturingNotifier) Notify(_ context.Context, toEmail, subject string, _ map[string]any) error {
	c.sent = append(c.sent, sentNotification{to: toEmail, subject: subject})
	return c.err
}

func notificationFixture() (*capturingNotifier, events.Dispatcher, *fakeUserRepo) {
	users := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Email: "rina@example.com", Role: domain.RoleRequester},
		7: {ID: 7, Email: "mira@example.com", Role: domain.RoleManager},
	}}
	notifier := &capturingNotifier{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	svc := NewNotificationService(dispatcher, users, notifier, zap.NewNop())
	svc.RegisterHandlers()
	return notifier, dispatcher, users
}

func TestStatusChangeNotifiesCreator(t *testing.T) {
	notifier, dispatcher, _ := notificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: 42,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusInProgress,
			CreatorID: 1,
		},
	})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "rina@example.com", notifier.sent[0].to)
	assert.Contains(t, notifier.sent[0].subject, "in_progress")
}

func TestResubmissionNotifiesReviewer(t *testing.T) {
	notifier, dispatcher, _ := notificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketResubmitted,
		TicketID: 42,
		Payload:  events.TicketResubmittedPayload{ReviewerID: 7, CreatorID: 1},
	})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "mira@example.com", notifier.sent[0].to)
}

func TestMissingRecipientIsSwallowed(t *testing.T) {
	notifier, dispatcher, _ := notificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 42,
		Payload:  events.TicketCreatedPayload{CreatorID: 999, Status: domain.TicketStatusOpen},
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestDeliveryFailureNeverPropagates(t *testing.T) {
	notifier, dispatcher, _ := notificationFixture()
	notifier.err = errors.New("smtp down")

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 42,
		Payload:  events.TicketCreatedPayload{CreatorID: 1, Status: domain.TicketStatusOpen},
	})
	assert.NoError(t, err)
	assert.Len(t, notifier.sent, 1)
}
