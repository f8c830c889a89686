package core_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/core"
	"github.com/robgonnella/portwatch/internal/report"
	"github.com/robgonnella/portwatch/internal/store"
	"github.com/robgonnella/portwatch/internal/test_util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// openPort returns a listening loopback port kept open for the test
func openPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	return l.Addr().(*net.TCPAddr).Port
}

func baseConfig(t *testing.T) config.Config {
	return config.Config{
		HostIdentifier: "h1",
		ScanInterval:   time.Minute,
		TCPPorts:       []int{openPort(t)},
		UDPPorts:       []int{},
		ScanTimeout:    500 * time.Millisecond,
		Workers:        4,
		ReportTimeout:  2 * time.Second,
		DBPath:         test_util.TempDBFile(t, "collector.db"),
		ReceiverPort:   freePort(t),
		QueryLimit:     10,
	}
}

func runCollector(t *testing.T, conf config.Config) *core.Collector {
	t.Helper()

	collector, err := core.CreateCollector(context.Background(), conf)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- collector.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		collector.Close()
	})

	return collector
}

func TestCreateSink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates http sink", func(st *testing.T) {
		sink, closeSink, err := core.CreateSink(ctx, config.Config{
			ReportSink:    config.SinkHTTP,
			ReceiverURL:   "http://localhost:5000/receive",
			ReportTimeout: time.Second,
		})

		require.NoError(st, err)
		defer closeSink()

		assert.IsType(st, &report.HTTPSink{}, sink)
	})

	t.Run("rejects unknown sink", func(st *testing.T) {
		sink, _, err := core.CreateSink(ctx, config.Config{ReportSink: "smtp"})

		assert.Error(st, err)
		assert.Nil(st, sink)
	})
}

func TestCreateRepo(t *testing.T) {
	repo, err := core.CreateRepo(context.Background(), config.Config{
		DBPath: test_util.TempDBFile(t, "repo.db"),
	})

	require.NoError(t, err)
	defer repo.Close()

	assert.IsType(t, &store.SqliteRepo{}, repo)
}

func TestAgentReportsOverHTTP(t *testing.T) {
	conf := baseConfig(t)
	conf.ReportSink = config.SinkHTTP
	conf.ReceiverURL = fmt.Sprintf("http://127.0.0.1:%d/receive", conf.ReceiverPort)

	collector := runCollector(t, conf)

	agent, err := core.CreateAgent(context.Background(), conf)
	require.NoError(t, err)
	defer agent.Close()

	// the collector may still be binding its listener
	require.Eventually(t, agent.RunOnce, 5*time.Second, 50*time.Millisecond)

	views, err := collector.Service().Recent(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "h1", views[0].Host)
	assert.Equal(t, "tcp", views[0].Protocol)
	assert.Equal(t, conf.TCPPorts[0], views[0].Port)
}

func TestAgentReportsOverPubSub(t *testing.T) {
	ctx := context.Background()

	srv := pstest.NewServer()
	defer srv.Close()

	t.Setenv("PUBSUB_EMULATOR_HOST", srv.Addr)

	admin, err := pubsub.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer admin.Close()

	topic, err := admin.CreateTopic(ctx, "scans")
	require.NoError(t, err)

	_, err = admin.CreateSubscription(ctx, "scans-sub", pubsub.SubscriptionConfig{
		Topic: topic,
	})
	require.NoError(t, err)

	conf := baseConfig(t)
	conf.ReportSink = config.SinkPubSub
	conf.PubSub = config.PubSub{
		ProjectID:      "test-project",
		TopicID:        "scans",
		SubscriptionID: "scans-sub",
	}

	collector := runCollector(t, conf)

	agent, err := core.CreateAgent(ctx, conf)
	require.NoError(t, err)
	defer agent.Close()

	require.True(t, agent.RunOnce())

	var views []*store.View

	require.Eventually(t, func() bool {
		views, err = collector.Service().Recent(ctx, 10)
		return err == nil && len(views) == 1
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "h1", views[0].Host)
	assert.Equal(t, conf.TCPPorts[0], views[0].Port)
}
