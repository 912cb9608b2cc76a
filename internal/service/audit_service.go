package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-catalog/internal/events"
)

// AuditService writes an audit trail line for every staff change.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to staff events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventStaffCreated, a.handleStaffEvent)
	a.dispatcher.Subscribe(events.EventStaffUpdated, a.handleStaffEvent)
	a.dispatcher.Subscribe(events.EventStaffDeleted, a.handleStaffEvent)
}

func (a *AuditService) handleStaffEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("staff_id", event.StaffID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
