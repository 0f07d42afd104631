package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/wellness-api/internal/model"
)

func (r *messageRepository) Create(ctx context.Context, msg *model.Message, evt *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO messages (
				id, sender_id, sender_role, receiver_id, receiver_role,
				body, sent_at, read
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if msg.ID == uuid.Nil {
			msg.ID = uuid.New()
		}
		if msg.SentAt.IsZero() {
			msg.SentAt = time.Now()
		}
		msg.Read = false

		_, err := tx.ExecContext(ctx, query,
			msg.ID,
			msg.SenderID,
			msg.SenderRole,
			msg.ReceiverID,
			msg.ReceiverRole,
			msg.Body,
			msg.SentAt,
			msg.Read,
		)
		if err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		if evt != nil {
			if err := createOutboxEventTx(ctx, tx, evt); err != nil {
				return fmt.Errorf("failed to write outbox event: %w", err)
			}
		}
		return nil
	})
}

func (r *messageRepository) Thread(ctx context.Context, a, b model.Principal) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, sender_role, receiver_id, receiver_role,
			   body, sent_at, read
		FROM messages
		WHERE (sender_id = $1 AND sender_role = $2 AND receiver_id = $3 AND receiver_role = $4)
		   OR (sender_id = $3 AND sender_role = $4 AND receiver_id = $1 AND receiver_role = $2)
		ORDER BY sent_at ASC
	`
	var messages []*model.Message
	err := r.db.SelectContext(ctx, &messages, query, a.ID, a.Role, b.ID, b.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}
	return messages, nil
}

type summaryRow struct {
	CounterpartyID uuid.UUID  `db:"counterparty_id"`
	UnreadCount    int        `db:"unread_count"`
	ID             uuid.UUID  `db:"id"`
	SenderID       uuid.UUID  `db:"sender_id"`
	SenderRole     model.Role `db:"sender_role"`
	ReceiverID     uuid.UUID  `db:"receiver_id"`
	ReceiverRole   model.Role `db:"receiver_role"`
	Body           string     `db:"body"`
	SentAt         time.Time  `db:"sent_at"`
	Read           bool       `db:"read"`
}

// Summaries groups the principal's conversations by counterparty, keeping
// the latest message per group and counting unread messages addressed to
// the principal. Only opposite-role conversations exist by construction.
func (r *messageRepository) Summaries(ctx context.Context, principal model.Principal) ([]*model.ConversationSummary, error) {
	counterRole := principal.Role.Opposite()

	query := `
		WITH convo AS (
			SELECT m.*,
				   CASE WHEN m.sender_id = $1 AND m.sender_role = $2
						THEN m.receiver_id ELSE m.sender_id
				   END AS counterparty_id
			FROM messages m
			WHERE (m.sender_id = $1 AND m.sender_role = $2 AND m.receiver_role = $3)
			   OR (m.receiver_id = $1 AND m.receiver_role = $2 AND m.sender_role = $3)
		)
		SELECT DISTINCT ON (c.counterparty_id)
			   c.counterparty_id,
			   (SELECT count(*) FROM convo u
				WHERE u.counterparty_id = c.counterparty_id
				  AND u.receiver_id = $1 AND u.receiver_role = $2
				  AND NOT u.read) AS unread_count,
			   c.id, c.sender_id, c.sender_role, c.receiver_id, c.receiver_role,
			   c.body, c.sent_at, c.read
		FROM convo c
		ORDER BY c.counterparty_id, c.sent_at DESC
	`
	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, principal.ID, principal.Role, counterRole); err != nil {
		return nil, fmt.Errorf("failed to load conversation summaries: %w", err)
	}

	summaries := make([]*model.ConversationSummary, len(rows))
	for i, row := range rows {
		summaries[i] = &model.ConversationSummary{
			CounterpartyID: row.CounterpartyID,
			UnreadCount:    row.UnreadCount,
			LastMessage: model.Message{
				ID:           row.ID,
				SenderID:     row.SenderID,
				SenderRole:   row.SenderRole,
				ReceiverID:   row.ReceiverID,
				ReceiverRole: row.ReceiverRole,
				Body:         row.Body,
				SentAt:       row.SentAt,
				Read:         row.Read,
			},
		}
	}
	return summaries, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, receiver, sender model.Principal) (int64, error) {
	query := `
		UPDATE messages
		SET read = TRUE
		WHERE receiver_id = $1 AND receiver_role = $2
		  AND sender_id = $3 AND sender_role = $4
		  AND NOT read
	`
	result, err := r.db.ExecContext(ctx, query, receiver.ID, receiver.Role, sender.ID, sender.Role)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
