package journal

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"github.com/elmanelman/judge-submit/controller"
	"github.com/elmanelman/judge-submit/judge"
	"github.com/elmanelman/judge-submit/render"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) config.JournalConfig {
	return config.JournalConfig{
		Enabled: true,
		Driver:  config.DriverSQLite,
		DSN:     filepath.Join(t.TempDir(), "journal.db"),
		Buffer:  8,
	}
}

func successOutcome(at time.Time, status string) controller.Outcome {
	result := &judge.JudgeResult{Status: status, Message: "detail"}
	return controller.Outcome{
		AttemptID: uuid.New(),
		State:     controller.DoneSuccess,
		Result:    result,
		Block:     render.Verdict(result),
		StartedAt: at,
		Elapsed:   250 * time.Millisecond,
	}
}

func TestNewRecordFromFailure(t *testing.T) {
	err := &judge.TransportError{StatusCode: 500, Detail: "judge queue full"}
	o := controller.Outcome{
		AttemptID: uuid.New(),
		State:     controller.DoneFailure,
		Err:       err,
		Block:     render.Failure(err.Error()),
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   time.Second,
	}

	rec := NewRecord(o)
	assert.Equal(t, o.AttemptID.String(), rec.AttemptID)
	assert.Equal(t, "done_failure", rec.Outcome)
	assert.Empty(t, rec.Status)
	assert.Equal(t, 500, rec.StatusCode)
	assert.Equal(t, "error", rec.Style)
	assert.Equal(t, "server error: 500 - judge queue full", rec.Detail)
	assert.Equal(t, int64(1000), rec.ElapsedMs)
	assert.True(t, rec.JudgedAt.Equal(o.StartedAt.Add(time.Second)))
}

func TestNewRecordFromUnreachable(t *testing.T) {
	o := controller.Outcome{
		AttemptID: uuid.New(),
		State:     controller.DoneFailure,
		Err:       &judge.TransportError{Err: errors.New("connection refused"), Detail: "connection refused"},
	}
	assert.Zero(t, NewRecord(o).StatusCode)
}

func TestJournalPersistsOutcomes(t *testing.T) {
	cfg := testConfig(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	j, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	first := successOutcome(base, "Accept")
	second := successOutcome(base.Add(time.Minute), "Runtime Error")
	third := successOutcome(base.Add(2*time.Minute), "Wrong Answer")
	for _, o := range []controller.Outcome{first, second, third} {
		j.Observe(context.Background(), o)
	}
	require.NoError(t, j.Close())

	j, err = Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer j.Close()

	records, err := j.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, third.AttemptID.String(), records[0].AttemptID)
	assert.Equal(t, "Wrong Answer", records[0].Status)
	assert.Equal(t, "error", records[0].Style)
	assert.Empty(t, records[0].Detail)

	assert.Equal(t, second.AttemptID.String(), records[1].AttemptID)
	assert.Equal(t, "warning", records[1].Style)
	assert.Equal(t, "detail", records[1].Detail)
	assert.Equal(t, int64(250), records[1].ElapsedMs)
}

func TestObserveAfterCloseIsIgnored(t *testing.T) {
	j, err := Open(testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	j.Observe(context.Background(), successOutcome(time.Now(), "Accept"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(config.JournalConfig{Driver: "mysql", DSN: "x"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRecentReadsNullText(t *testing.T) {
	j, err := Open(testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer j.Close()

	_, err = j.db.Exec(`INSERT INTO SUBMISSION_OUTCOMES
		(ATTEMPT_ID, OUTCOME, STATUS, STATUS_CODE, STYLE, DETAIL, JUDGED_AT, ELAPSED_MS)
		VALUES (?, ?, NULL, ?, ?, NULL, ?, ?)`,
		"a1", "done_failure", 0, "error", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)

	records, err := j.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].AttemptID)
	assert.Empty(t, records[0].Status)
	assert.Empty(t, records[0].Detail)
	assert.Equal(t, int64(12), records[0].ElapsedMs)
}

func TestCloseKeepsAcceptedRecords(t *testing.T) {
	cfg := testConfig(t)
	cfg.Buffer = 64

	j, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := NewRecord(successOutcome(base.Add(time.Duration(i)*time.Second), "Accept"))
			if j.enqueue(rec) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	require.NoError(t, j.Close())
	wg.Wait()

	j, err = Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer j.Close()

	records, err := j.Recent(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, records, accepted)
}
