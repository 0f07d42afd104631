package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
)

func TestMarkRead_RepeatCallAffectsNothing(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &messageRepository{NewBaseRepository(db)}

	receiver := model.Principal{ID: uuid.New(), Role: model.RolePatient}
	sender := model.Principal{ID: uuid.New(), Role: model.RolePractitioner}

	// the update only touches unread rows, so a repeat run finds none
	markRead := `UPDATE messages SET read = TRUE WHERE .* AND NOT read`
	mk.ExpectExec(markRead).
		WithArgs(receiver.ID, receiver.Role, sender.ID, sender.Role).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mk.ExpectExec(markRead).
		WithArgs(receiver.ID, receiver.Role, sender.ID, sender.Role).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkRead(context.Background(), receiver, sender)
	require.NoError(t, err)
	second, err := repo.MarkRead(context.Background(), receiver, sender)
	require.NoError(t, err)

	assert.Equal(t, int64(2), first)
	assert.Equal(t, int64(0), second)
	assert.NoError(t, mk.ExpectationsWereMet())
}

func TestCreate_KeepsCallerAssignedID(t *testing.T) {
	db, mk := newMockDB(t)
	repo := &messageRepository{NewBaseRepository(db)}

	msg := &model.Message{
		ID:           uuid.New(),
		SenderID:     uuid.New(),
		SenderRole:   model.RolePatient,
		ReceiverID:   uuid.New(),
		ReceiverRole: model.RolePractitioner,
		Body:         "is tuesday open?",
	}
	assigned := msg.ID

	mk.ExpectBegin()
	mk.ExpectExec(`INSERT INTO messages`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectCommit()

	err := repo.Create(context.Background(), msg, nil)

	require.NoError(t, err)
	assert.Equal(t, assigned, msg.ID)
	assert.False(t, msg.SentAt.IsZero())
	assert.NoError(t, mk.ExpectationsWereMet())
}
