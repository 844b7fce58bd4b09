package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/homebuilt/warranty-service/internal/config"
	"github.com/homebuilt/warranty-service/internal/events"
)

// NotificationService handles emitting notifications for claim events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventClaimSubmitted, n.handleClaimSubmitted)
	n.dispatcher.Subscribe(events.EventClaimStatusChanged, n.handleClaimStatusChanged)
	n.dispatcher.Subscribe(events.EventProposedDateAdded, n.handleProposedDateAdded)
	n.dispatcher.Subscribe(events.EventProposedDateResponded, n.handleProposedDateResponded)
	n.dispatcher.Subscribe(events.EventClaimDeleted, n.handleClaimDeleted)
}

func (n *NotificationService) handleClaimSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ClaimSubmitted", zap.String("claim_id", event.ClaimID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClaimStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ClaimStatusChanged", zap.String("claim_id", event.ClaimID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// Homeowners are emailed when staff offer an appointment.
func (n *NotificationService) handleProposedDateAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("ProposedDateAdded", zap.String("claim_id", event.ClaimID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleProposedDateResponded(ctx context.Context, event events.Event) error {
	n.logger.Info("ProposedDateResponded", zap.String("claim_id", event.ClaimID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClaimDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ClaimDeleted", zap.String("claim_id", event.ClaimID), zap.String("actor", event.Actor.AccountID))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("claim_id", event.ClaimID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("claim_id", event.ClaimID),
		zap.String("event_type", string(event.Type)))
}
