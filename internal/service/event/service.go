package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
)

// Domain event types published through the outbox.
const (
	TypeBookingCreated  = "booking.created"
	TypeBookingApproved = "booking.approved"
	TypeBookingRejected = "booking.rejected"
	TypeMessageSent     = "message.sent"
)

type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

// NewEvent builds an outbox event for callers that persist it inside their
// own transaction.
func NewEvent(eventType string, payload interface{}) (*model.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   data,
		Status:    model.OutboxStatusPending,
	}, nil
}

// Emit persists an event outside any caller transaction.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, evt); err != nil {
		return fmt.Errorf("failed to emit event: %w", err)
	}
	return nil
}
