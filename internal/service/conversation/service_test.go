package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
	"github.com/jwalitptl/wellness-api/internal/service/event"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

type fixture struct {
	messageRepo      *mock.MessageRepository
	bookingRepo      *mock.BookingRepository
	patientRepo      *mock.PatientRepository
	practitionerRepo *mock.PractitionerRepository
	svc              *Service
}

func newFixture() *fixture {
	f := &fixture{
		messageRepo:      &mock.MessageRepository{},
		bookingRepo:      &mock.BookingRepository{},
		patientRepo:      &mock.PatientRepository{},
		practitionerRepo: &mock.PractitionerRepository{},
	}
	f.svc = NewService(f.messageRepo, f.bookingRepo, f.patientRepo, f.practitionerRepo)
	return f
}

func TestDirectory_MergesBookingsAndMessages(t *testing.T) {
	f := newFixture()
	patient := model.Principal{ID: uuid.New(), Role: model.RolePatient}
	bookingOnly := uuid.New()
	both := uuid.New()
	messageOnly := uuid.New()

	f.bookingRepo.ApprovedCounterpartyIDsFunc = func(ctx context.Context, p model.Principal) ([]uuid.UUID, error) {
		return []uuid.UUID{bookingOnly, both}, nil
	}
	newer := time.Now()
	older := newer.Add(-time.Hour)
	f.messageRepo.SummariesFunc = func(ctx context.Context, p model.Principal) ([]*model.ConversationSummary, error) {
		return []*model.ConversationSummary{
			{CounterpartyID: both, LastMessage: model.Message{Body: "see you monday", SentAt: older}, UnreadCount: 2},
			{CounterpartyID: messageOnly, LastMessage: model.Message{Body: "hello", SentAt: newer}},
		}, nil
	}
	f.practitionerRepo.ListByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*model.Practitioner, error) {
		return []*model.Practitioner{
			{Base: model.Base{ID: bookingOnly}, Name: "Asha", Mobile: "9000000001"},
			{Base: model.Base{ID: both}, Name: "Ben", Mobile: "9000000002"},
		}, nil
	}

	contacts, err := f.svc.Directory(context.Background(), patient)

	require.NoError(t, err)
	require.Len(t, contacts, 3)

	// message entries first, most recent first; booking-only at the end
	assert.Equal(t, messageOnly, contacts[0].Counterparty.ID)
	assert.Equal(t, "Unknown", contacts[0].Counterparty.Name)
	assert.False(t, contacts[0].HasBooking)
	assert.True(t, contacts[0].HasMessages)

	assert.Equal(t, both, contacts[1].Counterparty.ID)
	assert.Equal(t, "Ben", contacts[1].Counterparty.Name)
	assert.True(t, contacts[1].HasBooking)
	assert.True(t, contacts[1].HasMessages)
	assert.Equal(t, 2, contacts[1].UnreadCount)
	assert.Equal(t, "see you monday", contacts[1].LastMessage.Body)

	assert.Equal(t, bookingOnly, contacts[2].Counterparty.ID)
	assert.True(t, contacts[2].HasBooking)
	assert.False(t, contacts[2].HasMessages)
	assert.Nil(t, contacts[2].LastMessage)
}

func TestDirectory_Empty(t *testing.T) {
	f := newFixture()
	f.bookingRepo.ApprovedCounterpartyIDsFunc = func(ctx context.Context, p model.Principal) ([]uuid.UUID, error) {
		return nil, nil
	}
	f.messageRepo.SummariesFunc = func(ctx context.Context, p model.Principal) ([]*model.ConversationSummary, error) {
		return nil, nil
	}

	contacts, err := f.svc.Directory(context.Background(), model.Principal{ID: uuid.New(), Role: model.RolePractitioner})

	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestSend(t *testing.T) {
	f := newFixture()
	sender := model.Principal{ID: uuid.New(), Role: model.RolePatient}
	receiver := uuid.New()

	f.practitionerRepo.GetFunc = func(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
		return &model.Practitioner{Base: model.Base{ID: id}}, nil
	}
	var stored *model.Message
	f.messageRepo.CreateFunc = func(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error {
		stored = msg
		require.NotNil(t, evt)
		assert.Equal(t, event.TypeMessageSent, evt.EventType)
		return nil
	}

	msg, err := f.svc.Send(context.Background(), sender, &model.SendMessageRequest{
		ReceiverID:   receiver.String(),
		ReceiverRole: model.RolePractitioner,
		Body:         "  is tuesday open?  ",
	})

	require.NoError(t, err)
	assert.Same(t, stored, msg)
	assert.Equal(t, "is tuesday open?", msg.Body)
	assert.Equal(t, sender.ID, msg.SenderID)
	assert.Equal(t, model.RolePatient, msg.SenderRole)
	assert.Equal(t, receiver, msg.ReceiverID)
	assert.False(t, msg.Read)
}

func TestSend_EventCarriesMessageID(t *testing.T) {
	f := newFixture()
	sender := model.Principal{ID: uuid.New(), Role: model.RolePatient}
	receiver := uuid.New()

	f.practitionerRepo.GetFunc = func(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
		return &model.Practitioner{Base: model.Base{ID: id}}, nil
	}
	var captured *model.OutboxEvent
	f.messageRepo.CreateFunc = func(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error {
		captured = evt
		return nil
	}

	msg, err := f.svc.Send(context.Background(), sender, &model.SendMessageRequest{
		ReceiverID:   receiver.String(),
		ReceiverRole: model.RolePractitioner,
		Body:         "is tuesday open?",
	})

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, msg.ID)
	require.NotNil(t, captured)

	var payload struct {
		MessageID  uuid.UUID `json:"message_id"`
		SenderID   uuid.UUID `json:"sender_id"`
		ReceiverID uuid.UUID `json:"receiver_id"`
	}
	require.NoError(t, json.Unmarshal(captured.Payload, &payload))
	assert.Equal(t, msg.ID, payload.MessageID)
	assert.Equal(t, sender.ID, payload.SenderID)
	assert.Equal(t, receiver, payload.ReceiverID)
}

func TestSend_BlankBody(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Send(context.Background(), model.Principal{ID: uuid.New(), Role: model.RolePatient},
		&model.SendMessageRequest{ReceiverID: uuid.New().String(), ReceiverRole: model.RolePractitioner, Body: "   "})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestSend_SameRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Send(context.Background(), model.Principal{ID: uuid.New(), Role: model.RolePatient},
		&model.SendMessageRequest{ReceiverID: uuid.New().String(), ReceiverRole: model.RolePatient, Body: "hi"})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidInput))
}

func TestSend_UnknownReceiver(t *testing.T) {
	f := newFixture()
	f.practitionerRepo.GetFunc = func(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
		return nil, sql.ErrNoRows
	}

	_, err := f.svc.Send(context.Background(), model.Principal{ID: uuid.New(), Role: model.RolePatient},
		&model.SendMessageRequest{ReceiverID: uuid.New().String(), ReceiverRole: model.RolePractitioner, Body: "hi"})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestMarkRead(t *testing.T) {
	f := newFixture()
	principal := model.Principal{ID: uuid.New(), Role: model.RolePractitioner}
	counterparty := uuid.New()

	f.messageRepo.MarkReadFunc = func(ctx context.Context, receiver, sender model.Principal) (int64, error) {
		assert.Equal(t, principal, receiver)
		assert.Equal(t, counterparty, sender.ID)
		assert.Equal(t, model.RolePatient, sender.Role)
		return 3, nil
	}

	n, err := f.svc.MarkRead(context.Background(), principal, counterparty)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
