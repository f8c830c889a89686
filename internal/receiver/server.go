package receiver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/exception"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
	"github.com/robgonnella/portwatch/internal/store"
)

// maxBodySize upper bound on accepted snapshot payloads
const maxBodySize = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server exposes snapshot ingestion and scan history over http
type Server struct {
	addr    string
	limit   int
	service store.Service
	log     logger.Logger
}

// NewServer returns a new instance of Server
func NewServer(conf config.Config, service store.Service) *Server {
	return &Server{
		addr:    fmt.Sprintf(":%d", conf.ReceiverPort),
		limit:   conf.QueryLimit,
		service: service,
		log:     logger.Named("receiver"),
	}
}

// Handler returns the http handler serving all receiver routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /receive", s.handleReceive)
	mux.HandleFunc("GET /scans", s.handleScans)

	return s.recoverer(mux)
}

// ListenAndServe blocks serving requests until ctx is canceled, then shuts
// the server down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.log.Info().Str("addr", s.addr).Msg("Starting receiver")
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info().Msg("Shutting down receiver")

		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r.Header.Get("Content-Type")) {
		s.log.Warn().Msg("Received non-JSON payload")
		writeError(w, http.StatusBadRequest, "Request must be JSON")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))

	if err != nil {
		var tooLarge *http.MaxBytesError

		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}

		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	snap, err := snapshot.Parse(body)

	if err != nil {
		if errors.Is(err, exception.ErrMissingFields) {
			s.log.Warn().Msg("Received incomplete payload")
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		s.log.Warn().Err(err).Msg("Received malformed payload")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.service.Ingest(r.Context(), snap); err != nil {
		s.log.Error().Err(err).Msg("Error processing scan")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	views, err := s.service.Recent(r.Context(), s.limit)

	if err != nil {
		s.log.Error().Err(err).Msg("Error retrieving scans")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string][]*store.View{"scans": views})
}

// recoverer answers 500 instead of crashing on a panicking handler
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("request handler panicked")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)

	if err != nil {
		return false
	}

	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
