package report

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
)

// publishTimeout bounds the wait for a publish acknowledgment
const publishTimeout = 10 * time.Second

// PubSubSink implements Sink by publishing snapshots to a Pub/Sub topic
type PubSubSink struct {
	topic *pubsub.Topic
	log   logger.Logger
}

// NewPubSubSink returns a sink publishing to topic
func NewPubSubSink(topic *pubsub.Topic) *PubSubSink {
	return &PubSubSink{
		topic: topic,
		log:   logger.Named("sink"),
	}
}

// Send publishes the snapshot and waits for the server to acknowledge it
func (s *PubSubSink) Send(ctx context.Context, snap *snapshot.Snapshot) bool {
	data, err := json.Marshal(snap)

	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode snapshot")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	id, err := s.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"host_identifier": snap.HostIdentifier,
		},
	}).Get(ctx)

	if err != nil {
		s.log.Error().
			Err(err).
			Str("topic", s.topic.ID()).
			Msg("Failed to publish results")
		return false
	}

	s.log.Debug().Str("id", id).Msg("published snapshot")

	return true
}

// Close flushes pending messages and stops the topic's publish goroutines
func (s *PubSubSink) Close() {
	s.topic.Stop()
}
