package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable after creation except for the read flag, which the
// receiver's mark-read flips to true exactly once.
type Message struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SenderID     uuid.UUID `db:"sender_id" json:"sender_id"`
	SenderRole   Role      `db:"sender_role" json:"sender_role"`
	ReceiverID   uuid.UUID `db:"receiver_id" json:"receiver_id"`
	ReceiverRole Role      `db:"receiver_role" json:"receiver_role"`
	Body         string    `db:"body" json:"body"`
	SentAt       time.Time `db:"sent_at" json:"sent_at"`
	Read         bool      `db:"read" json:"read"`
}

type SendMessageRequest struct {
	ReceiverID   string `json:"receiver_id" binding:"required,uuid"`
	ReceiverRole Role   `json:"receiver_role" binding:"required,oneof=patient practitioner"`
	Body         string `json:"body" binding:"required"`
}

// ConversationSummary is the per-counterparty aggregate over the message
// history of one principal.
type ConversationSummary struct {
	CounterpartyID uuid.UUID
	LastMessage    Message
	UnreadCount    int
}

// ContactParty is the display identity of a conversation counterparty.
type ContactParty struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Mobile string    `json:"mobile"`
}

// Contact is one entry of the conversation directory: a counterparty reached
// through an approved booking, message history, or both.
type Contact struct {
	Counterparty ContactParty `json:"counterparty"`
	LastMessage  *Message     `json:"last_message"`
	UnreadCount  int          `json:"unread_count"`
	HasBooking   bool         `json:"has_booking"`
	HasMessages  bool         `json:"has_messages"`
}
