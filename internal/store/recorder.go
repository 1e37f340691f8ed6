package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

const schema = `
CREATE TABLE IF NOT EXISTS frames (
	frame   INTEGER PRIMARY KEY,
	elapsed REAL,
	delta   REAL);
CREATE TABLE IF NOT EXISTS bodies (
	frame INTEGER,
	id    INTEGER,
	angle REAL,
	apsis REAL,
	x     REAL,
	y     REAL);
`

const indices = `
CREATE INDEX IF NOT EXISTS idx_bodies_frame ON bodies (frame, id);
CREATE INDEX IF NOT EXISTS idx_bodies_id ON bodies (id);
`

const (
	insertFrame = `INSERT OR REPLACE INTO frames VALUES (?, ?, ?);`
	insertBody  = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?);`
)

// ErrRecorderClosed is returned by Close when called twice.
var ErrRecorderClosed = errors.New("recorder already closed")

// Recorder writes frame samples to an sqlite database. Samples are queued and
// written by a single worker, since sqlite allows one writer at a time.
type Recorder struct {
	db     *sql.DB
	log    *logging.Logger
	ch     chan orbit.FrameSample
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	err    error

	dropped uint64
	written uint64
}

// OpenRecorder creates or opens the database at filename and starts the worker.
func OpenRecorder(filename string, log *logging.Logger) (*Recorder, error) {
	// recordings are disposable, so skip the journal and fsync
	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, logging.WrapError(err, "open recording %s", filename)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, logging.WrapError(err, "create tables in %s", filename)
	}
	stmtFrame, err := db.Prepare(insertFrame)
	if err != nil {
		db.Close()
		return nil, logging.WrapError(err, "prepare frame insert")
	}
	stmtBody, err := db.Prepare(insertBody)
	if err != nil {
		db.Close()
		return nil, logging.WrapError(err, "prepare body insert")
	}

	r := &Recorder{
		db:  db,
		log: log,
		ch:  make(chan orbit.FrameSample, 32),
	}
	r.wg.Add(1)
	go r.work(stmtFrame, stmtBody)
	return r, nil
}

// ObserveFrame queues a sample. It never blocks the frame loop: when the queue
// is full the sample is dropped and counted.
func (r *Recorder) ObserveFrame(f orbit.FrameSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- f:
	default:
		r.dropped++
	}
}

func (r *Recorder) work(stmtFrame, stmtBody *sql.Stmt) {
	defer r.wg.Done()
	defer stmtFrame.Close()
	defer stmtBody.Close()

	for f := range r.ch {
		if r.err != nil {
			continue
		}
		if err := r.write(stmtFrame, stmtBody, f); err != nil {
			r.err = err
			r.log.Failure("recording stopped", err, "frame", f.Frame)
			continue
		}
		r.written++
	}
}

func (r *Recorder) write(stmtFrame, stmtBody *sql.Stmt, f orbit.FrameSample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Stmt(stmtFrame).Exec(f.Frame, f.ElapsedMs, f.DeltaMs); err != nil {
		tx.Rollback()
		return fmt.Errorf("frame %d: %w", f.Frame, err)
	}
	body := tx.Stmt(stmtBody)
	for _, b := range f.Bodies {
		if _, err := body.Exec(f.Frame, b.ID, b.Angle, b.Apsis, b.Position.X(), b.Position.Y()); err != nil {
			tx.Rollback()
			return fmt.Errorf("frame %d body %d: %w", f.Frame, b.ID, err)
		}
	}
	return tx.Commit()
}

// Close drains the queue, builds the indices and closes the database. It
// returns the first write error, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderClosed
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
	r.log.Info("recording closed", "frames", r.written, "dropped", r.dropped)

	err := r.err
	if _, ierr := r.db.Exec(indices); ierr != nil && err == nil {
		err = logging.WrapError(ierr, "create indices")
	}
	if cerr := r.db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Stats reports how many frames were written and dropped. Only meaningful after Close.
func (r *Recorder) Stats() (written, dropped uint64) {
	return r.written, r.dropped
}

// BodyTrack is one recorded row for a body.
type BodyTrack struct {
	Frame uint64
	Angle float64
	X, Y  float64
}

// ReadTrack returns every recorded sample of body id in frame order.
func ReadTrack(filename string, id int) ([]BodyTrack, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT frame, angle, x, y FROM bodies WHERE id = ? ORDER BY frame ASC;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BodyTrack
	for rows.Next() {
		var t BodyTrack
		if err := rows.Scan(&t.Frame, &t.Angle, &t.X, &t.Y); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
