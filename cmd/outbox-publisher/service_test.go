package main

import (
	"context"
	"errors"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/logger"
)

type fakeDB struct{}

func (fakeDB) Ping(context.Context) error { return nil }

func (fakeDB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakePubSub struct{}

func (fakePubSub) Ping(context.Context) error            { return nil }
func (fakePubSub) OrdersPublisher() *gcppubsub.Publisher { return nil }

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (r *fakeRepo) FetchUnpublished(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeRepo) MarkPublished(tx *gorm.DB, id uuid.UUID) error {
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepo) MarkFailed(tx *gorm.DB, id uuid.UUID, cause error) error {
	r.failed = append(r.failed, id)
	return nil
}

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	return "msg-1", r.err
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return fakeResult{err: p.err}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         fakeDB{},
		PubSub:     fakePubSub{},
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func outboxEvent() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"version":1}`),
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := outboxEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, string(enums.EventOrderCreated), pub.messages[0].Attributes["event_type"])
	assert.Equal(t, event.AggregateID.String(), pub.messages[0].Attributes["aggregate_id"])

	require.Len(t, repo.published, 1)
	assert.Equal(t, event.ID, repo.published[0])
	assert.Empty(t, repo.failed)
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	first := outboxEvent()
	second := outboxEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{err: errors.New("topic unavailable")}
	svc := newTestService(t, repo, pub)

	processed, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	assert.Len(t, repo.failed, 2)
	assert.Empty(t, repo.published)
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{})

	processed, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Empty(t, repo.published)
	assert.Empty(t, repo.failed)
}
