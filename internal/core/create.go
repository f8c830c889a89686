package core

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/discovery"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/report"
	"github.com/robgonnella/portwatch/internal/store"
)

// CreateAgent creates and returns a new scanning agent for conf
func CreateAgent(ctx context.Context, conf config.Config) (*Core, error) {
	sink, closeSink, err := CreateSink(ctx, conf)

	if err != nil {
		return nil, err
	}

	prober := discovery.NewNetProber(discovery.DefaultHost, conf.ScanTimeout)

	scanner := discovery.NewPortScanner(conf, prober)

	scannerService := discovery.NewScannerService(conf, scanner, sink)

	return New(conf, scannerService, closeSink), nil
}

// CreateSink returns the report sink selected by conf along with a func
// releasing any clients the sink holds
func CreateSink(ctx context.Context, conf config.Config) (report.Sink, func(), error) {
	log := logger.Named("core")

	switch conf.ReportSink {
	case config.SinkPubSub:
		client, err := pubsub.NewClient(ctx, conf.PubSub.ProjectID)

		if err != nil {
			return nil, nil, fmt.Errorf("pubsub client: %w", err)
		}

		sink := report.NewPubSubSink(client.Topic(conf.PubSub.TopicID))

		log.Info().
			Str("project", conf.PubSub.ProjectID).
			Str("topic", conf.PubSub.TopicID).
			Msg("Reporting snapshots to pubsub")

		return sink, func() {
			sink.Close()
			client.Close()
		}, nil
	case config.SinkHTTP:
		log.Info().Str("url", conf.ReceiverURL).Msg("Reporting snapshots over http")
		return report.NewHTTPSink(conf.ReceiverURL, conf.ReportTimeout), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown report sink: %s", conf.ReportSink)
	}
}

// CreateRepo opens the scan store selected by conf. Postgres is used when
// a database url is configured, sqlite otherwise.
func CreateRepo(ctx context.Context, conf config.Config) (store.Repo, error) {
	log := logger.Named("core")

	if conf.UsePostgres() {
		log.Info().Msg("Using postgres scan store")
		return store.NewPostgresDatabase(ctx, conf.DatabaseURL)
	}

	log.Info().Str("path", conf.DBPath).Msg("Using sqlite scan store")

	return store.NewSqliteDatabase(conf.DBPath)
}
