package store

import (
	"context"
	"time"

	"github.com/robgonnella/portwatch/internal/snapshot"
)

//go:generate mockgen -destination=../mock/store/mock_store.go -package=mock_store . Repo,Service

// Record a single open port observation. Records are never updated.
type Record struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	HostIdentifier string    `gorm:"not null;index"`
	ScanTimestamp  int64     `gorm:"not null;index"`
	Protocol       string    `gorm:"not null"`
	Port           int       `gorm:"not null"`
	RecordedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the table name stable across repo implementations
func (Record) TableName() string {
	return "port_scans"
}

// View represents a stored record as returned to clients
type View struct {
	Host       string `json:"host"`
	ScanTime   string `json:"scan_time"`
	Protocol   string `json:"protocol"`
	Port       int    `json:"port"`
	RecordedAt string `json:"recorded_at"`
}

// Repo interface representing access to stored scan records
type Repo interface {
	Insert(ctx context.Context, records []*Record) error
	Recent(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}

// Service interface for ingesting snapshots and querying history
type Service interface {
	Ingest(ctx context.Context, snap *snapshot.Snapshot) (int, error)
	Recent(ctx context.Context, limit int) ([]*View, error)
}
