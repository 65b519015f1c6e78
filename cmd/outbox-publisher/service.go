package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
)

const (
	defaultBatchSize      = 50
	defaultPollInterval   = 500 * time.Millisecond
	defaultPublishTimeout = 15 * time.Second
	defaultMaxAttempts    = 10
	maxBackoff            = 10 * time.Second
	jitterWindow          = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	OrdersPublisher() *gcppubsub.Publisher
}

type outboxRepository interface {
	FetchUnpublished(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(tx *gorm.DB, id uuid.UUID) error
	MarkFailed(tx *gorm.DB, id uuid.UUID, cause error) error
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         dbClient
	PubSub     pubSubClient
	Repository outboxRepository
	Metrics    *metrics.OutboxMetrics
	// Publisher overrides the Pub/Sub topic publisher, for tests.
	Publisher publisher
}

// Service drains outbox_events onto the order-event topic. It claims rows
// with SKIP LOCKED so multiple replicas never double-publish.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	db           dbClient
	repo         outboxRepository
	pubsub       pubSubClient
	publisher    publisher
	outboxStats  *metrics.OutboxMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}

	pub := params.Publisher
	if pub == nil {
		pub = newGCPPublisher(params.PubSub.OrdersPublisher())
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	poll := params.Config.Outbox.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		pubsub:       params.PubSub,
		publisher:    pub,
		outboxStats:  params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: poll,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	return pingDependency(ctx, s.logg, "pubsub", s.pubsub.Ping)
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	interval := s.pollInterval
	backoff := interval

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "outbox publisher context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.ProcessBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox publisher batch error", err)
			backoff = nextBackoff(backoff, interval, maxBackoff)
			if err := s.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = interval

		if processed {
			continue
		}

		if err := s.sleep(ctx, withJitter(interval)); err != nil {
			return err
		}
	}
}

// ProcessBatch publishes one locked batch. It returns true when any row was
// claimed, so the loop can drain a backlog without sleeping.
func (s *Service) ProcessBatch(ctx context.Context) (bool, error) {
	processed := false
	start := time.Now()
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublished(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		processed = true
		for _, event := range events {
			fields := s.eventFields(event)

			if err := s.publishEvent(ctx, event); err != nil {
				s.outboxStats.IncFailed()
				ctxWithFields := s.logg.WithFields(ctx, fields)
				ctxWithFields = s.logg.WithField(ctxWithFields, "error", err.Error())
				s.logg.Warn(ctxWithFields, "outbox publish failed")
				if markErr := s.repo.MarkFailed(tx, event.ID, err); markErr != nil {
					return fmt.Errorf("mark failure %s: %w", event.ID, markErr)
				}
				continue
			}

			if markErr := s.repo.MarkPublished(tx, event.ID); markErr != nil {
				return fmt.Errorf("mark published %s: %w", event.ID, markErr)
			}
			s.outboxStats.IncPublished()
			s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		}
		return nil
	})
	if processed {
		s.outboxStats.ObserveBatch(time.Since(start))
	}
	return processed, err
}

func (s *Service) publishEvent(ctx context.Context, event models.OutboxEvent) error {
	if s.publisher == nil {
		return errors.New("orders topic publisher not configured")
	}

	msg := &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := s.publisher.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return err
	}
	return nil
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"batch_size":     s.batchSize,
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(jitterSource.Int63n(int64(jitterWindow)))
	return d + jitter
}

func newGCPPublisher(p *gcppubsub.Publisher) publisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{Publisher: p}
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
