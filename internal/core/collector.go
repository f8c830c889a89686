package core

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/receiver"
	"github.com/robgonnella/portwatch/internal/store"
	"golang.org/x/sync/errgroup"
)

// Collector represents our receiving side: the http server plus an
// optional pubsub subscriber, both writing to one scan store
type Collector struct {
	conf       config.Config
	repo       store.Repo
	service    store.Service
	server     *receiver.Server
	subscriber *receiver.Subscriber
	client     *pubsub.Client
	log        logger.Logger
}

// CreateCollector creates and returns a new Collector for conf. The pubsub
// subscriber is only created when a subscription id is configured.
func CreateCollector(ctx context.Context, conf config.Config) (*Collector, error) {
	repo, err := CreateRepo(ctx, conf)

	if err != nil {
		return nil, err
	}

	service := store.NewService(repo)

	collector := &Collector{
		conf:    conf,
		repo:    repo,
		service: service,
		server:  receiver.NewServer(conf, service),
		log:     logger.Named("collector"),
	}

	if conf.PubSub.SubscriptionID == "" {
		return collector, nil
	}

	client, err := pubsub.NewClient(ctx, conf.PubSub.ProjectID)

	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	collector.client = client
	collector.subscriber = receiver.NewSubscriber(
		client.Subscription(conf.PubSub.SubscriptionID),
		service,
	)

	return collector, nil
}

// Service returns the store service backing this collector
func (c *Collector) Service() store.Service {
	return c.service
}

// Run serves http and, if configured, consumes pubsub until ctx is
// canceled or either one fails
func (c *Collector) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.server.ListenAndServe(ctx)
	})

	if c.subscriber != nil {
		g.Go(func() error {
			return c.subscriber.Run(ctx)
		})
	}

	return g.Wait()
}

// Close releases the store and pubsub client
func (c *Collector) Close() error {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.log.Error().Err(err).Msg("failed to close pubsub client")
		}
	}

	return c.repo.Close()
}
