package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Notifier delivers a message to a user. Fire-and-forget: failures are
// logged by the caller, never surfaced to the request.
type Notifier interface {
	Notify(ctx context.Context, toEmail, subject string, context map[string]any) error
}

// NotificationService turns domain events into best-effort
// notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	notifier   Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, notifier Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketResubmitted, n.handleResubmitted)
	n.dispatcher.Subscribe(events.EventTicketApprovalRequested, n.handleApprovalRequested)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.String("status", string(payload.Status)))
	return n.sendTo(ctx, payload.CreatorID,
		fmt.Sprintf("Ticket #%d received", event.TicketID),
		map[string]any{"ticket_id": event.TicketID, "status": payload.Status})
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketStatusChanged",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	return n.sendTo(ctx, payload.CreatorID,
		fmt.Sprintf("Ticket #%d is now %s", event.TicketID, payload.NewStatus),
		map[string]any{
			"ticket_id":  event.TicketID,
			"old_status": payload.OldStatus,
			"new_status": payload.NewStatus,
			"comment":    payload.Comment,
		})
}

func (n *NotificationService) handleResubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResubmittedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketResubmitted", zap.Int64("ticket_id", event.TicketID), zap.Int64("reviewer_id", payload.ReviewerID))
	return n.sendTo(ctx, payload.ReviewerID,
		fmt.Sprintf("Ticket #%d was resubmitted for your approval", event.TicketID),
		map[string]any{"ticket_id": event.TicketID, "creator_id": payload.CreatorID})
}

func (n *NotificationService) handleApprovalRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketApprovalRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketApprovalRequested", zap.Int64("ticket_id", event.TicketID), zap.Int64("reviewer_id", payload.ReviewerID))
	return n.sendTo(ctx, payload.ReviewerID,
		fmt.Sprintf("Ticket #%d awaits your approval", event.TicketID),
		map[string]any{"ticket_id": event.TicketID, "priority": payload.Priority})
}

func (n *NotificationService) sendTo(ctx context.Context, userID int64, subject string, context map[string]any) error {
	if n.notifier == nil {
		return nil
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			n.logger.Warn("notification recipient missing", zap.Int64("user_id", userID))
			return nil
		}
		return err
	}
	if err := n.notifier.Notify(ctx, user.Email, subject, context); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.Int64("user_id", userID),
			zap.String("subject", subject),
			zap.Error(err))
	}
	return nil
}

// LogNotifier is the default Notifier: it records what an outbound
// mailer/webhook integration would send.
type LogNotifier struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogNotifier creates the stub notifier.
func NewLogNotifier(logger *zap.Logger, cfg config.NotificationConfig) *LogNotifier {
	return &LogNotifier{logger: logger, cfg: cfg}
}

// Notify logs the message instead of delivering it.
func (n *LogNotifier) Notify(ctx context.Context, toEmail, subject string, context map[string]any) error {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return nil
	}
	n.logger.Debug("notify",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.Any("context", context))
	return nil
}
