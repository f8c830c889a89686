package store

import (
	"context"
	"time"

	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
)

// StoreService represents our store.Service implementation
type StoreService struct {
	repo Repo
	log  logger.Logger
}

// NewService returns a new instance StoreService
func NewService(repo Repo) *StoreService {
	return &StoreService{
		repo: repo,
		log:  logger.Named("store"),
	}
}

// Ingest stores one record per (protocol, port) in the snapshot and
// returns how many were written
func (s *StoreService) Ingest(ctx context.Context, snap *snapshot.Snapshot) (int, error) {
	records := ToRecords(snap)

	if err := s.repo.Insert(ctx, records); err != nil {
		s.log.Error().
			Err(err).
			Str("host", snap.HostIdentifier).
			Msg("Failed to store results")
		return 0, err
	}

	s.log.Info().
		Str("host", snap.HostIdentifier).
		Int("records", len(records)).
		Msg("Stored scan results")

	return len(records), nil
}

// Recent returns up to limit stored records as views, newest scan first
func (s *StoreService) Recent(ctx context.Context, limit int) ([]*View, error) {
	records, err := s.repo.Recent(ctx, limit)

	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(records))

	for _, r := range records {
		views = append(views, ToView(r))
	}

	return views, nil
}

// ToRecords flattens a snapshot into records visiting protocols in sorted
// order and ports in snapshot order
func ToRecords(snap *snapshot.Snapshot) []*Record {
	records := make([]*Record, 0, snap.Count())

	for _, protocol := range snap.Protocols() {
		for _, port := range snap.OpenPorts[protocol] {
			records = append(records, &Record{
				HostIdentifier: snap.HostIdentifier,
				ScanTimestamp:  snap.Timestamp,
				Protocol:       string(protocol),
				Port:           port,
			})
		}
	}

	return records
}

// ToView converts a record to its client representation
func ToView(r *Record) *View {
	return &View{
		Host:       r.HostIdentifier,
		ScanTime:   time.Unix(r.ScanTimestamp, 0).UTC().Format(time.RFC3339),
		Protocol:   r.Protocol,
		Port:       r.Port,
		RecordedAt: r.RecordedAt.UTC().Format(time.RFC3339),
	}
}
