package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/skburgers/backend/internal/notifications"
	"github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/outbox"
	"github.com/skburgers/backend/pkg/pubsub"
	"github.com/skburgers/backend/pkg/redis"
)

type ServiceParams struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *redis.Client
	PubSub *pubsub.Client
}

// Service consumes the order-event stream. Staff screens poll Redis-backed
// signals, so the worker's job is to fan events out into those signals and
// keep an audit trail in the logs.
type Service struct {
	cfg    *config.Config
	logg   *logger.Logger
	redis  *redis.Client
	pubsub *pubsub.Client
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	return &Service{
		cfg:    params.Config,
		logg:   params.Logger,
		redis:  params.Redis,
		pubsub: params.PubSub,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
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
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	sub := s.pubsub.OrdersSubscription()
	if sub == nil {
		return errors.New("orders subscription not configured")
	}

	s.logg.Info(ctx, "worker consuming order events")
	return sub.Receive(ctx, func(msgCtx context.Context, msg *gcppubsub.Message) {
		if err := s.handleMessage(msgCtx, msg); err != nil {
			s.logg.Error(msgCtx, "failed to handle order event", err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (s *Service) handleMessage(ctx context.Context, msg *gcppubsub.Message) error {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		// Malformed payloads would never succeed on retry; ack after logging.
		s.logg.Error(ctx, "discarding malformed event payload", err)
		return nil
	}

	fields := map[string]any{
		"event_type":   string(eventType),
		"event_id":     envelope.EventID,
		"aggregate_id": msg.Attributes["aggregate_id"],
	}
	if envelope.Actor != nil {
		fields["actor_role"] = string(envelope.Actor.Role)
	}
	ctx = s.logg.WithFields(ctx, fields)

	switch eventType {
	case enums.EventConfigChanged:
		// Re-broadcast on the Redis channel so open screens refresh even
		// when the original publish raced a deploy.
		if err := s.redis.PublishConfigChanged(ctx, envelope.EventID); err != nil {
			return fmt.Errorf("rebroadcast config change: %w", err)
		}
		s.logg.Info(ctx, "config change fanned out")
	case enums.EventOrderPreparing, enums.EventOrderReady, enums.EventOrderDispatched,
		enums.EventOrderDelivered, enums.EventOrderCompleted, enums.EventOrderCancelled:
		var data orders.OrderStatusEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			s.logg.Error(ctx, "discarding malformed status payload", err)
			return nil
		}
		ctx = s.logg.WithFields(ctx, map[string]any{
			"comanda": data.Comanda,
			"status":  string(data.Status),
		})
		if link := statusNotificationLink(eventType, data); link != "" {
			key := s.redis.NotificationKey(data.OrderID.String(), string(data.Status))
			if err := s.redis.Set(ctx, key, link, notificationTTL); err != nil {
				return fmt.Errorf("store notification link: %w", err)
			}
			ctx = s.logg.WithField(ctx, "whatsapp_link", link)
		}
		s.logg.Info(ctx, "order status event consumed")
	default:
		s.logg.Info(ctx, "order event consumed")
	}
	return nil
}

const notificationTTL = 24 * time.Hour

// statusNotificationLink builds the WhatsApp deep link the operator forwards
// to the customer. Only preparing and out-for-delivery transitions notify.
func statusNotificationLink(eventType enums.OutboxEventType, data orders.OrderStatusEvent) string {
	if data.CustomerPhone == "" {
		return ""
	}
	order := models.Order{
		Comanda:    data.Comanda,
		Total:      data.Total,
		DriverName: data.DriverName,
	}
	switch eventType {
	case enums.EventOrderPreparing:
		return notifications.WhatsAppLink(data.CustomerPhone, notifications.PreparingMessage(order))
	case enums.EventOrderDispatched:
		return notifications.WhatsAppLink(data.CustomerPhone, notifications.OutForDeliveryMessage(order))
	default:
		return ""
	}
}
