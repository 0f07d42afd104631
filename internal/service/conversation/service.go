package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository"
	"github.com/jwalitptl/wellness-api/internal/service/event"
	apperrors "github.com/jwalitptl/wellness-api/pkg/errors"
)

type Service struct {
	messageRepo      repository.MessageRepository
	bookingRepo      repository.BookingRepository
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
}

func NewService(
	messageRepo repository.MessageRepository,
	bookingRepo repository.BookingRepository,
	patientRepo repository.PatientRepository,
	practitionerRepo repository.PractitionerRepository,
) *Service {
	return &Service{
		messageRepo:      messageRepo,
		bookingRepo:      bookingRepo,
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
	}
}

// Directory lists everyone the principal can talk to: counterparties of
// approved bookings merged with counterparties from message history. A
// counterparty present in both keeps its booking flag and its message
// summary. Entries with messages come first, most recent message first;
// booking-only entries follow, sorted by name.
func (s *Service) Directory(ctx context.Context, principal model.Principal) ([]*model.Contact, error) {
	bookingIDs, err := s.bookingRepo.ApprovedCounterpartyIDs(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking counterparties: %w", err)
	}
	summaries, err := s.messageRepo.Summaries(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation summaries: %w", err)
	}

	contacts := make(map[uuid.UUID]*model.Contact, len(bookingIDs)+len(summaries))
	for _, id := range bookingIDs {
		contacts[id] = &model.Contact{
			Counterparty: model.ContactParty{ID: id},
			HasBooking:   true,
		}
	}
	for _, sum := range summaries {
		c, ok := contacts[sum.CounterpartyID]
		if !ok {
			c = &model.Contact{Counterparty: model.ContactParty{ID: sum.CounterpartyID}}
			contacts[sum.CounterpartyID] = c
		}
		last := sum.LastMessage
		c.LastMessage = &last
		c.UnreadCount = sum.UnreadCount
		c.HasMessages = true
	}
	if len(contacts) == 0 {
		return []*model.Contact{}, nil
	}

	if err := s.resolveNames(ctx, principal.Role.Opposite(), contacts); err != nil {
		return nil, err
	}

	out := make([]*model.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasMessages != b.HasMessages {
			return a.HasMessages
		}
		if a.HasMessages {
			return a.LastMessage.SentAt.After(b.LastMessage.SentAt)
		}
		return a.Counterparty.Name < b.Counterparty.Name
	})
	return out, nil
}

// resolveNames fills display identities from whichever table the
// counterparty role lives in. Ids that no longer resolve keep a placeholder
// rather than dropping the entry.
func (s *Service) resolveNames(ctx context.Context, role model.Role, contacts map[uuid.UUID]*model.Contact) error {
	ids := make([]uuid.UUID, 0, len(contacts))
	for id := range contacts {
		ids = append(ids, id)
	}

	switch role {
	case model.RolePatient:
		patients, err := s.patientRepo.ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load patients: %w", err)
		}
		for _, p := range patients {
			if c, ok := contacts[p.ID]; ok {
				c.Counterparty.Name = p.Name
				c.Counterparty.Mobile = p.Mobile
			}
		}
	case model.RolePractitioner:
		practitioners, err := s.practitionerRepo.ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load practitioners: %w", err)
		}
		for _, p := range practitioners {
			if c, ok := contacts[p.ID]; ok {
				c.Counterparty.Name = p.Name
				c.Counterparty.Mobile = p.Mobile
			}
		}
	}

	for _, c := range contacts {
		if c.Counterparty.Name == "" {
			c.Counterparty.Name = "Unknown"
		}
	}
	return nil
}

// Thread returns the full two-way conversation, oldest first.
func (s *Service) Thread(ctx context.Context, principal model.Principal, counterpartyID uuid.UUID) ([]*model.Message, error) {
	counterparty := model.Principal{ID: counterpartyID, Role: principal.Role.Opposite()}
	msgs, err := s.messageRepo.Thread(ctx, principal, counterparty)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}
	return msgs, nil
}

func (s *Service) Send(ctx context.Context, sender model.Principal, req *model.SendMessageRequest) (*model.Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, apperrors.InvalidInput("message body is empty", nil)
	}
	if !req.ReceiverRole.Valid() || req.ReceiverRole == sender.Role {
		return nil, apperrors.InvalidInput("receiver must be on the other side of the conversation", nil)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid receiver id", err)
	}
	if err := s.checkExists(ctx, receiverID, req.ReceiverRole); err != nil {
		return nil, err
	}

	// The event payload is marshaled up front, so the id has to exist
	// before the repository call.
	msg := &model.Message{
		SenderID:     sender.ID,
		SenderRole:   sender.Role,
		ReceiverID:   receiverID,
		ReceiverRole: req.ReceiverRole,
		Body:         body,
	}
	msg.ID = uuid.New()
	msg.SentAt = time.Now()
	evt, err := event.NewEvent(event.TypeMessageSent, map[string]interface{}{
		"message_id":  msg.ID,
		"sender_id":   sender.ID,
		"receiver_id": receiverID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Create(ctx, msg, evt); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil
}

// MarkRead flags the counterparty's unread messages to the principal as
// read. Calling it again is a no-op.
func (s *Service) MarkRead(ctx context.Context, principal model.Principal, counterpartyID uuid.UUID) (int64, error) {
	counterparty := model.Principal{ID: counterpartyID, Role: principal.Role.Opposite()}
	n, err := s.messageRepo.MarkRead(ctx, principal, counterparty)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return n, nil
}

func (s *Service) checkExists(ctx context.Context, id uuid.UUID, role model.Role) error {
	var err error
	switch role {
	case model.RolePatient:
		_, err = s.patientRepo.Get(ctx, id)
	case model.RolePractitioner:
		_, err = s.practitionerRepo.Get(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("receiver", err)
		}
		return fmt.Errorf("failed to check receiver: %w", err)
	}
	return nil
}
