package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
)

// HTTPSink implements Sink by POSTing snapshots as json to a receiver
type HTTPSink struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// NewHTTPSink returns a new HTTPSink. The timeout bounds each request.
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logger.Named("sink"),
	}
}

// Send posts the snapshot and returns true on any 2xx response
func (s *HTTPSink) Send(ctx context.Context, snap *snapshot.Snapshot) bool {
	body, err := json.Marshal(snap)

	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode snapshot")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))

	if err != nil {
		s.log.Error().Err(err).Str("url", s.url).Msg("Failed to build request")
		return false
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)

	if err != nil {
		s.log.Error().Err(err).Str("url", s.url).Msg("Failed to send results")
		return false
	}

	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Error().
			Int("status", resp.StatusCode).
			Str("url", s.url).
			Msg("Receiver rejected results")
		return false
	}

	return true
}
