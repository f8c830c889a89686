package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteRepo is our repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteDatabase opens (creating if needed) the sqlite database at
// dbFile and migrates the records table
func NewSqliteDatabase(dbFile string) (*SqliteRepo, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()

	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return NewSqliteRepo(db), nil
}

// NewSqliteRepo wraps an existing, already migrated gorm connection
func NewSqliteRepo(db *gorm.DB) *SqliteRepo {
	return &SqliteRepo{db: db}
}

// Insert stores all records in a single transaction
func (r *SqliteRepo) Insert(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(records).Error
	})

	if err != nil {
		return fmt.Errorf("insert records: %w", err)
	}

	return nil
}

// Recent returns up to limit records, newest scan first
func (r *SqliteRepo) Recent(ctx context.Context, limit int) ([]*Record, error) {
	records := []*Record{}

	result := r.db.WithContext(ctx).
		Order("scan_timestamp desc").
		Order("id asc").
		Limit(limit).
		Find(&records)

	if result.Error != nil {
		return nil, fmt.Errorf("query records: %w", result.Error)
	}

	return records, nil
}

// Close closes the underlying connection
func (r *SqliteRepo) Close() error {
	sqlDB, err := r.db.DB()

	if err != nil {
		return err
	}

	return sqlDB.Close()
}
