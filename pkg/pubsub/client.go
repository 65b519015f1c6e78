package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/logger"
)

// Client wraps the Pub/Sub v2 client for the order-event stream.
type Client struct {
	client    *pubsub.Client
	projectID string
	cfg       config.PubSubConfig
}

var errProjectIDRequired = errors.New("gcp project id is required")

// NewClient creates a Pub/Sub v2 client and verifies the configured
// subscription exists.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:    psClient,
		projectID: gcp.ProjectID,
		cfg:       cfg,
	}

	if err := c.ensureSubscriptionExists(ctx, cfg.OrdersSubscription); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "pubsub client initialized")
	}

	return c, nil
}

func (c *Client) ensureSubscriptionExists(ctx context.Context, name string) error {
	fullName := c.subscriptionResourceName(name)
	if fullName == "" {
		return fmt.Errorf("subscription %q not configured", name)
	}

	_, err := c.client.SubscriptionAdminClient.GetSubscription(
		ctx,
		&pubsubpb.GetSubscriptionRequest{Subscription: fullName},
	)
	if err != nil {
		// v2 uses gRPC errors; NotFound means the subscription doesn't exist.
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("subscription %q does not exist", name)
		}
		return fmt.Errorf("checking subscription %q: %w", name, err)
	}

	return nil
}

// OrdersPublisher returns the publisher handle for the order-event topic.
func (c *Client) OrdersPublisher() *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := c.topicResourceName(c.cfg.OrdersTopic)
	if fullName == "" {
		return nil
	}
	return c.client.Publisher(fullName)
}

// OrdersSubscription returns the subscriber handle for the worker.
func (c *Client) OrdersSubscription() *pubsub.Subscriber {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := c.subscriptionResourceName(c.cfg.OrdersSubscription)
	if fullName == "" {
		return nil
	}
	return c.client.Subscriber(fullName)
}

// Ping verifies Pub/Sub connectivity by checking the subscription exists.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("pubsub client not initialized")
	}
	return c.ensureSubscriptionExists(ctx, c.cfg.OrdersSubscription)
}

// Close releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) subscriptionResourceName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/subscriptions/") {
		return n
	}
	p := strings.TrimSpace(c.projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/subscriptions/%s", p, n)
}

func (c *Client) topicResourceName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(c.projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}
