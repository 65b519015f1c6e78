package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/logger"
)

const (
	keyNamespace       = "skb"
	idempotencyPrefix  = "idempotency"
	sessionPrefix      = "session"
	notificationPrefix = "notification"
	configChannelName  = "config_changed"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	Publish(context.Context, string, any) *redis.IntCmd
}

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore exposes minimal operations used by idempotency helpers.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Set stores a string value with an optional TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

// Get returns a string value stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	return c.store.Get(ctx, key).Result()
}

// SetNX sets a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errors.New("redis client not initialized")
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Del(ctx, keys...).Err()
}

// IdempotencyKey returns a namespaced key for idempotency storage.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.buildKey(idempotencyPrefix, scope, id)
}

// SessionKey builds a namespaced key for staff/driver sessions.
func (c *Client) SessionKey(sessionID string) string {
	return c.buildKey(sessionPrefix, sessionID)
}

// NotificationKey builds a namespaced key for customer notification links.
func (c *Client) NotificationKey(orderID, status string) string {
	return c.buildKey(notificationPrefix, orderID, status)
}

// ConfigChannel names the pub/sub channel store-config changes fan out on.
func (c *Client) ConfigChannel() string {
	return keyNamespace + ":" + configChannelName
}

// PublishConfigChanged notifies subscribed screens that the settings row moved.
func (c *Client) PublishConfigChanged(ctx context.Context, payload string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Publish(ctx, c.ConfigChannel(), payload).Err()
}

// SubscribeConfigChanged returns a subscription on the config channel. The
// caller owns closing it.
func (c *Client) SubscribeConfigChanged(ctx context.Context) *redis.PubSub {
	return c.raw.Subscribe(ctx, c.ConfigChannel())
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

// Close tears down the underlying pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Client) buildKey(parts ...string) string {
	key := keyNamespace
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
