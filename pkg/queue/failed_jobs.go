package queue

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// FailedJobRecord is a row in failed_jobs. The table is created by the
// storefront migrations.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// persistFailed writes a job that exhausted its attempts to failed_jobs.
// Without UseDB the failure is only logged.
func (m *Manager) persistFailed(ctx context.Context, env envelope, lastErr error) {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db == nil {
		return
	}

	record := FailedJobRecord{
		JobType:  env.Type,
		Payload:  string(env.Payload),
		Attempts: m.maxAttempts,
		FailedAt: time.Now(),
	}
	if lastErr != nil {
		record.Error = lastErr.Error()
	}
	// ctx may already be cancelled during shutdown; the record still matters.
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", env.Type, "error", err)
	}
}
