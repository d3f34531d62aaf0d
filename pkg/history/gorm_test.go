package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dverbeek/reportpool/pkg/core"
)

// newTestRecorder creates a fresh in-memory SQLite recorder for each test,
// fully migrated and ready for use.
func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open in-memory sqlite")

	r := NewRecorder(db)
	require.NoError(t, r.Migrate(context.Background()), "migrate schema")
	return r
}

func testSummary(batchID string) core.BatchSummary {
	return core.BatchSummary{
		BatchID: batchID,
		Statuses: []core.JobStatus{
			core.StatusSucceeded,
			core.StatusFailed,
			core.StatusSucceeded,
		},
		Failures: []core.Failure{
			{Index: 1, Err: errors.New("bad input")},
		},
		StartedAt: time.Now().Add(-time.Second),
		Elapsed:   time.Second,
	}
}

func TestRecord_PersistsBatchAndJobs(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, testSummary("batch-1")))

	batch, err := r.Batch(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Jobs)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, int64(1000), batch.ElapsedMS)

	jobs, err := r.Jobs(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, 0, jobs[0].JobIndex)
	assert.Equal(t, "succeeded", jobs[0].Status)
	assert.Equal(t, "failed", jobs[1].Status)
	assert.Equal(t, "bad input", jobs[1].Error)
	assert.Empty(t, jobs[0].Error)
}

func TestRecord_EmptyBatch(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	sum := core.BatchSummary{BatchID: "empty", StartedAt: time.Now()}
	require.NoError(t, r.Record(ctx, sum))

	batch, err := r.Batch(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Jobs)

	jobs, err := r.Jobs(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRecord_DuplicateBatchID_Fails(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, testSummary("dup")))
	assert.Error(t, r.Record(ctx, testSummary("dup")))
}

func TestBatch_NotFound(t *testing.T) {
	r := newTestRecorder(t)

	_, err := r.Batch(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFailedJobs_OnlyFailedOrderedByIndex(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	sum := core.BatchSummary{
		BatchID: "b",
		Statuses: []core.JobStatus{
			core.StatusFailed,
			core.StatusSucceeded,
			core.StatusSucceeded,
			core.StatusFailed,
		},
		Failures: []core.Failure{
			{Index: 0, Err: errors.New("first")},
			{Index: 3, Err: errors.New("second")},
		},
		StartedAt: time.Now(),
	}
	require.NoError(t, r.Record(ctx, sum))

	failed, err := r.FailedJobs(ctx, "b")
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, 0, failed[0].JobIndex)
	assert.Equal(t, 3, failed[1].JobIndex)
	assert.Equal(t, "first", failed[0].Error)
}

func TestRecord_SanitizesFailureMessages(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	sum := core.BatchSummary{
		BatchID:  "dirty",
		Statuses: []core.JobStatus{core.StatusFailed},
		Failures: []core.Failure{
			{Index: 0, Err: errors.New("bad\x00byte")},
		},
		StartedAt: time.Now(),
	}
	require.NoError(t, r.Record(ctx, sum))

	jobs, err := r.Jobs(ctx, "dirty")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "badbyte", jobs[0].Error)
}

func TestRecentBatches_NewestFirst(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		sum := testSummary(id)
		require.NoError(t, r.Record(ctx, sum))
		time.Sleep(5 * time.Millisecond) // distinct created_at timestamps
	}

	recent, err := r.RecentBatches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}
