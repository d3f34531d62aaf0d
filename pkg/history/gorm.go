// Package history persists finished batch outcomes with GORM.
//
// History is a write-once ledger: a batch is recorded after it completes and
// nothing in a running batch ever reads it back. It exists so bulk runs can
// be audited later (which batches ran, how long they took, which job indices
// failed and why).
package history

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dverbeek/reportpool/pkg/core"
	"github.com/dverbeek/reportpool/pkg/limits"
)

// BatchRecord is one finished batch.
type BatchRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Jobs      int
	Succeeded int
	Failed    int
	StartedAt time.Time
	ElapsedMS int64
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// JobRecord is the final status of one job within a batch.
type JobRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	BatchID  string `gorm:"index;size:36;not null"`
	JobIndex int    `gorm:"not null"`
	Status   string `gorm:"size:20;not null"`
	Error    string `gorm:"type:text"`
}

// Recorder writes batch summaries to a database.
type Recorder struct {
	db *gorm.DB
}

var _ core.Recorder = (*Recorder)(nil)

// NewRecorder creates a GORM-backed recorder. The caller owns the *gorm.DB
// and chooses the dialect; tests use the sqlite driver.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Migrate creates the history tables.
func (r *Recorder) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&BatchRecord{}, &JobRecord{})
}

// Record persists one batch summary and its per-job rows in a single
// transaction.
func (r *Recorder) Record(ctx context.Context, sum core.BatchSummary) error {
	failureText := make(map[int]string, len(sum.Failures))
	for _, f := range sum.Failures {
		failureText[f.Index] = limits.SanitizeErrorMessage(f.Err.Error())
	}

	batch := &BatchRecord{
		ID:        sum.BatchID,
		Jobs:      sum.Total(),
		Succeeded: sum.Succeeded(),
		Failed:    sum.Failed(),
		StartedAt: sum.StartedAt,
		ElapsedMS: sum.Elapsed.Milliseconds(),
	}

	jobs := make([]JobRecord, 0, len(sum.Statuses))
	for i, status := range sum.Statuses {
		jobs = append(jobs, JobRecord{
			BatchID:  sum.BatchID,
			JobIndex: i,
			Status:   status.String(),
			Error:    failureText[i],
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		if len(jobs) == 0 {
			return nil
		}
		return tx.CreateInBatches(jobs, 200).Error
	})
}

// Batch returns one batch record by ID.
func (r *Recorder) Batch(ctx context.Context, batchID string) (*BatchRecord, error) {
	var batch BatchRecord
	err := r.db.WithContext(ctx).First(&batch, "id = ?", batchID).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Jobs returns every job row of a batch ordered by job index.
func (r *Recorder) Jobs(ctx context.Context, batchID string) ([]JobRecord, error) {
	var jobs []JobRecord
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("job_index ASC").
		Find(&jobs).Error
	return jobs, err
}

// FailedJobs returns the failed job rows of a batch ordered by job index.
func (r *Recorder) FailedJobs(ctx context.Context, batchID string) ([]JobRecord, error) {
	var jobs []JobRecord
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND status = ?", batchID, core.StatusFailed.String()).
		Order("job_index ASC").
		Find(&jobs).Error
	return jobs, err
}

// RecentBatches returns the most recently recorded batches, newest first.
func (r *Recorder) RecentBatches(ctx context.Context, limit int) ([]BatchRecord, error) {
	var batches []BatchRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&batches).Error
	return batches, err
}
