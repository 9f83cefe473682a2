package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"github.com/elmanelman/judge-submit/controller"
	"github.com/elmanelman/judge-submit/judge"
	"github.com/elmanelman/judge-submit/templates"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const defaultBuffer = 16

// Record is one journaled attempt. It never carries the submitted fields.
type Record struct {
	AttemptID  string    `db:"ATTEMPT_ID"`
	Outcome    string    `db:"OUTCOME"`
	Status     string    `db:"STATUS"`
	StatusCode int       `db:"STATUS_CODE"`
	Style      string    `db:"STYLE"`
	Detail     string    `db:"DETAIL"`
	JudgedAt   time.Time `db:"JUDGED_AT"`
	ElapsedMs  int64     `db:"ELAPSED_MS"`
}

// recordRow is Record as scanned back. Oracle stores empty strings as NULL,
// so the optional text columns come back nullable.
type recordRow struct {
	AttemptID  string         `db:"ATTEMPT_ID"`
	Outcome    string         `db:"OUTCOME"`
	Status     sql.NullString `db:"STATUS"`
	StatusCode int            `db:"STATUS_CODE"`
	Style      string         `db:"STYLE"`
	Detail     sql.NullString `db:"DETAIL"`
	JudgedAt   time.Time      `db:"JUDGED_AT"`
	ElapsedMs  int64          `db:"ELAPSED_MS"`
}

func (r recordRow) toRecord() Record {
	return Record{
		AttemptID:  r.AttemptID,
		Outcome:    r.Outcome,
		Status:     r.Status.String,
		StatusCode: r.StatusCode,
		Style:      r.Style,
		Detail:     r.Detail.String,
		JudgedAt:   r.JudgedAt,
		ElapsedMs:  r.ElapsedMs,
	}
}

func NewRecord(o controller.Outcome) Record {
	rec := Record{
		AttemptID: o.AttemptID.String(),
		Outcome:   o.State.String(),
		Style:     o.Block.Style.String(),
		Detail:    o.Block.Body,
		JudgedAt:  o.StartedAt.Add(o.Elapsed).UTC(),
		ElapsedMs: o.Elapsed.Milliseconds(),
	}
	if o.Result != nil {
		rec.Status = o.Result.Status
	}
	var transportErr *judge.TransportError
	if errors.As(o.Err, &transportErr) {
		rec.StatusCode = transportErr.StatusCode
	}
	return rec
}

// Journal keeps the history of attempt outcomes. Writes happen on a
// background goroutine so the controller never waits on the database.
type Journal struct {
	logger  *zap.Logger
	db      *sqlx.DB
	dialect templates.Dialect

	waitGroup sync.WaitGroup
	stop      chan struct{}
	records   chan Record

	mu     sync.Mutex
	closed bool
}

func Open(cfg config.JournalConfig, logger *zap.Logger) (*Journal, error) {
	dialect, ok := templates.For(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("unsupported journal driver: %s", cfg.Driver)
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect journal: %w", err)
	}
	if dialect.CreateOutcomes != "" {
		if _, err := db.Exec(dialect.CreateOutcomes); err != nil {
			db.Close()
			return nil, fmt.Errorf("create journal table: %w", err)
		}
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	j := &Journal{
		logger:  logger,
		db:      db,
		dialect: dialect,
		stop:    make(chan struct{}),
		records: make(chan Record, buffer),
	}

	logger.Info(
		"journal connected",
		zap.String("driver", cfg.Driver),
	)

	j.waitGroup.Add(1)
	go j.writer()

	return j, nil
}

// Observe queues the outcome for writing. A full queue drops the record.
func (j *Journal) Observe(_ context.Context, o controller.Outcome) {
	j.enqueue(NewRecord(o))
}

func (j *Journal) enqueue(rec Record) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return false
	}
	select {
	case j.records <- rec:
		return true
	default:
		j.logger.Warn(
			"journal queue full, outcome dropped",
			zap.String("attempt_id", rec.AttemptID),
		)
		return false
	}
}

func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	var rows []recordRow
	query := j.db.Rebind(j.dialect.SelectRecentOutcomes)
	if err := j.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("select outcomes: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// Close writes whatever is still queued, then closes the database.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	close(j.stop)
	j.waitGroup.Wait()
	return j.db.Close()
}

func (j *Journal) insert(rec Record) error {
	_, err := j.db.NamedExec(j.dialect.InsertOutcome, rec)
	return err
}

func (j *Journal) writer() {
	defer func() {
		j.logger.Info("stopped journal writer")
		j.waitGroup.Done()
	}()
	for {
		select {
		case <-j.stop:
			j.drain()
			return
		case rec := <-j.records:
			j.write(rec)
		}
	}
}

func (j *Journal) drain() {
	for {
		select {
		case rec := <-j.records:
			j.write(rec)
		default:
			return
		}
	}
}

func (j *Journal) write(rec Record) {
	if err := j.insert(rec); err != nil {
		j.logger.Error(
			"outcome journal write failed",
			zap.String("attempt_id", rec.AttemptID),
			zap.Error(err),
		)
	}
}
