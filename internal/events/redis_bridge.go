package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventChannel is the Redis pub/sub channel external consumers
// (dashboards, escalation jobs) subscribe to.
const EventChannel = "helpdesk.events"

// RedisBridge mirrors every dispatched event onto a Redis channel.
// Best-effort like all subscribers: a publish failure is logged and the
// originating request is unaffected.
type RedisBridge struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBridge creates the bridge. A nil client disables it.
func NewRedisBridge(client *redis.Client, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{client: client, logger: logger}
}

// Attach subscribes the bridge to all event types on the dispatcher.
func (b *RedisBridge) Attach(dispatcher Dispatcher) {
	if b == nil || b.client == nil || dispatcher == nil {
		return
	}
	for _, eventType := range []EventType{
		EventTicketCreated,
		EventTicketStatusChanged,
		EventTicketResubmitted,
		EventTicketApprovalRequested,
		EventTicketAssigned,
	} {
		dispatcher.Subscribe(eventType, b.forward)
	}
}

func (b *RedisBridge) forward(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Warn("event serialization failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return nil
	}
	if err := b.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		b.logger.Warn("event publish to redis failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
	return nil
}
