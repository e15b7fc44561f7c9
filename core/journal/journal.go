package journal

import (
	"context"
	"fmt"
	"time"

	"storage-sample/core/database"
	"storage-sample/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Entry is one recorded storage operation.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Op         string    `gorm:"column:op;size:32;index" json:"op"`
	Bucket     string    `gorm:"size:63;index" json:"bucket"`
	ObjectKey  string    `gorm:"size:1024" json:"key,omitempty"`
	Outcome    string    `gorm:"size:16" json:"outcome"`
	ErrorKind  string    `gorm:"size:32" json:"error_kind,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	RequestID  string    `gorm:"size:128" json:"request_id,omitempty"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	StartedAt  time.Time `gorm:"index" json:"started_at"`
}

// TableName overrides the table name used by Entry.
func (Entry) TableName() string {
	return "storage_events"
}

var columns = []string{"id", "op", "bucket", "object_key", "outcome", "error_kind", "status_code", "request_id", "error", "duration_ms", "started_at"}

// OpSummary counts outcomes of one operation.
type OpSummary struct {
	Op      string  `json:"op"`
	Outcome string  `json:"outcome"`
	Count   int64   `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
}

// Journal stores storage events in a database. It implements storage.Recorder.
type Journal struct {
	db     *gorm.DB
	logger *zap.Logger
	limit  int
}

// New creates a journal over db.
func New(db *gorm.DB, cfg Config, logger *zap.Logger) *Journal {
	limit := cfg.RecentLimit
	if limit <= 0 {
		limit = 100
	}
	return &Journal{db: db, logger: logger, limit: limit}
}

// Migrate creates or updates the events table and checks its columns.
func (j *Journal) Migrate() error {
	if err := j.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	missing, err := database.MissingColumns(j.db, Entry{}.TableName(), columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("journal table is missing columns: %v", missing)
	}
	return nil
}

// Record stores ev. Failures are logged and never reach the caller.
func (j *Journal) Record(ctx context.Context, ev storage.Event) {
	entry := Entry{
		Op:         ev.Op,
		Bucket:     ev.Bucket,
		ObjectKey:  ev.Key,
		Outcome:    ev.Outcome,
		ErrorKind:  ev.ErrorKind,
		StatusCode: ev.StatusCode,
		RequestID:  ev.RequestID,
		Error:      ev.Error,
		DurationMs: ev.Duration.Milliseconds(),
		StartedAt:  ev.StartedAt.UTC(),
	}
	// The operation may have failed because ctx was canceled; record it anyway.
	if err := j.db.WithContext(context.WithoutCancel(ctx)).Create(&entry).Error; err != nil {
		j.logger.Warn("Failed to record storage event", zap.String("op", ev.Op), zap.Error(err))
	}
}

// Recent returns the latest entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > j.limit {
		limit = j.limit
	}
	var entries []Entry
	if err := j.db.WithContext(ctx).Order("started_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	return entries, nil
}

// Summary aggregates entries per operation and outcome.
func (j *Journal) Summary(ctx context.Context) ([]OpSummary, error) {
	var rows []OpSummary
	err := j.db.WithContext(ctx).Model(&Entry{}).
		Select("op, outcome, COUNT(*) AS count, AVG(duration_ms) AS avg_ms").
		Group("op, outcome").
		Order("op, outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize journal: %w", err)
	}
	return rows, nil
}
