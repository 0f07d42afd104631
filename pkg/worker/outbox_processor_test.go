package worker

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/repository/mock"
	"github.com/jwalitptl/wellness-api/pkg/logger"
	"github.com/jwalitptl/wellness-api/pkg/messaging"
	"github.com/jwalitptl/wellness-api/pkg/metrics"
)

var testMetrics = metrics.New("workertest")

type stubBroker struct {
	published []messaging.Message
	err       error
}

func (b *stubBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *stubBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *stubBroker) Close() error { return nil }

func newTestProcessor(repo *mock.OutboxRepository, broker messaging.Broker, cfg OutboxProcessorConfig) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	return NewOutboxProcessor(repo, broker, cfg, log, testMetrics)
}

func TestProcessEvents_PublishesAndMarksProcessed(t *testing.T) {
	repo := &mock.OutboxRepository{}
	broker := &stubBroker{}
	evt := &model.OutboxEvent{ID: uuid.New(), EventType: "booking.created", Payload: []byte(`{}`)}

	repo.GetPendingEventsWithLockFunc = func(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
		return []*model.OutboxEvent{evt}, nil
	}
	var gotStatus model.OutboxStatus
	repo.UpdateStatusFunc = func(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
		assert.Equal(t, evt.ID, id)
		gotStatus = status
		return nil
	}

	p := newTestProcessor(repo, broker, OutboxProcessorConfig{})
	err := p.processEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, broker.published, 1)
	assert.Equal(t, "booking.created", broker.published[0].Type)
	assert.Equal(t, model.OutboxStatusProcessed, gotStatus)
}

func TestCleanupProcessed_UsesRetentionCutoff(t *testing.T) {
	repo := &mock.OutboxRepository{}
	var gotCutoff time.Time
	repo.DeleteProcessedBeforeFunc = func(ctx context.Context, before time.Time) (int64, error) {
		gotCutoff = before
		return 4, nil
	}

	p := newTestProcessor(repo, &stubBroker{}, OutboxProcessorConfig{Retention: 48 * time.Hour})
	p.cleanupProcessed(context.Background())

	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), gotCutoff, time.Minute)
}

func TestCleanupProcessed_SwallowsRepoError(t *testing.T) {
	repo := &mock.OutboxRepository{}
	repo.DeleteProcessedBeforeFunc = func(ctx context.Context, before time.Time) (int64, error) {
		return 0, context.DeadlineExceeded
	}

	p := newTestProcessor(repo, &stubBroker{}, OutboxProcessorConfig{})
	p.cleanupProcessed(context.Background())
}

func TestConfigDefaults(t *testing.T) {
	c := OutboxProcessorConfig{}.withDefaults()

	assert.Equal(t, 100, c.BatchSize)
	assert.Equal(t, 5*time.Second, c.PollInterval)
	assert.Equal(t, 7*24*time.Hour, c.Retention)
	assert.Equal(t, time.Hour, c.CleanupInterval)
}
