package receiver

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
	"github.com/robgonnella/portwatch/internal/store"
)

// Subscriber ingests snapshots delivered through a Pub/Sub subscription
type Subscriber struct {
	sub     *pubsub.Subscription
	service store.Service
	log     logger.Logger
}

// NewSubscriber returns a new instance of Subscriber
func NewSubscriber(sub *pubsub.Subscription, service store.Service) *Subscriber {
	return &Subscriber{
		sub:     sub,
		service: service,
		log:     logger.Named("subscriber"),
	}
}

// Run blocks receiving messages until ctx is canceled
func (s *Subscriber) Run(ctx context.Context) error {
	s.log.Info().Str("subscription", s.sub.ID()).Msg("Starting subscriber")

	return s.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.HandleMessage(ctx, msg.Data) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
}

// HandleMessage stores the snapshot in data and returns true if the message
// should be acked. Malformed snapshots are acked and dropped since
// redelivery cannot fix them; storage failures are nacked for redelivery.
func (s *Subscriber) HandleMessage(ctx context.Context, data []byte) bool {
	snap, err := snapshot.Parse(data)

	if err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed snapshot")
		return true
	}

	if _, err := s.service.Ingest(ctx, snap); err != nil {
		s.log.Error().
			Err(err).
			Str("host", snap.HostIdentifier).
			Msg("ingest failed, message will be redelivered")
		return false
	}

	return true
}
