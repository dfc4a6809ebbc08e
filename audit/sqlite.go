// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package audit keeps a trail of register commands in a SQLite database.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/ezrec/hwrw/command"
	"github.com/ezrec/hwrw/dispatch"
)

// MAX_PENDING is the default bound on records queued for a failing database.
const MAX_PENDING = 4096

// Entry is one row of the audit trail.
type Entry struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Duration  int64     `json:"duration_ns"`
	Input     string    `json:"input"`
	Verb      string    `json:"verb,omitempty"`
	Address   uint32    `json:"address"`
	Count     uint32    `json:"count"`
	Value     uint32    `json:"value"`
	Result    []uint32  `json:"result,omitempty"`
	Status    string    `json:"status"`
	Truncated bool      `json:"truncated"`
	Error     string    `json:"error,omitempty"`
}

// SQLiteRecorder writes dispatcher records to a SQLite database.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName     string
	BatchSize  int // Records held before a write to the database.
	MaxPending int // Records kept while writes fail; the oldest are dropped.

	mutex   sync.Mutex
	pending []Entry
	dropped uint64
}

var _ dispatch.Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens, or creates, the database at path. With an empty
// path a uniquely named database is created in the working directory.
// Pending records are flushed at exit.
func NewSQLiteRecorder(path string) (rec *SQLiteRecorder, err error) {
	if len(path) == 0 {
		path = fmt.Sprintf("hwrw_audit_%v.sqlite3", xid.New())
	}

	rec = &SQLiteRecorder{
		dbName:     path,
		BatchSize:  1,
		MaxPending: MAX_PENDING,
	}

	rec.DB, err = sql.Open("sqlite3", path)
	if err != nil {
		rec = nil
		return
	}

	err = rec.createTable()
	if err == nil {
		err = rec.prepareStatement()
	}
	if err != nil {
		rec.DB.Close()
		rec = nil
		return
	}

	atexit.Register(func() { rec.Close() })

	return
}

// Name returns the database path.
func (rec *SQLiteRecorder) Name() string {
	return rec.dbName
}

func (rec *SQLiteRecorder) createTable() (err error) {
	_, err = rec.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id          TEXT PRIMARY KEY,
			time        INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			input       TEXT NOT NULL,
			verb        TEXT,
			address     INTEGER,
			count       INTEGER,
			value       INTEGER,
			result      TEXT,
			status      TEXT NOT NULL,
			truncated   INTEGER NOT NULL,
			error       TEXT
		)`)
	if err != nil {
		return
	}

	_, err = rec.Exec(`CREATE INDEX IF NOT EXISTS commands_time ON commands (time)`)
	return
}

func (rec *SQLiteRecorder) prepareStatement() (err error) {
	rec.statement, err = rec.Prepare(`
		INSERT INTO commands (
			id, time, duration_ns, input, verb, address, count, value,
			result, status, truncated, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	return
}

// entryOf converts a dispatcher record to an audit entry.
func entryOf(rec dispatch.Record) (entry Entry) {
	entry = Entry{
		ID:        rec.ID.String(),
		Time:      rec.Time,
		Duration:  int64(rec.Duration),
		Input:     rec.Input,
		Result:    rec.Values,
		Status:    rec.Status.Code.String(),
		Truncated: rec.Status.Truncated,
	}

	if rec.Status.Err != nil {
		entry.Error = rec.Status.Err.Error()
	}

	// Rejected by the parser: there is no command to describe.
	if rec.Command == (command.Command{}) && rec.Status.Code == dispatch.STATUS_REJECTED {
		return
	}

	entry.Verb = rec.Command.Verb.String()
	switch rec.Command.Verb {
	case command.VERB_READ:
		entry.Address = rec.Command.Start
		entry.Count = rec.Command.Count
	case command.VERB_WRITE:
		entry.Address = rec.Command.Address
		entry.Count = 1
		entry.Value = rec.Command.Value
	}

	return
}

// Record queues a dispatcher record, and writes the queue once it holds
// BatchSize records.
func (rec *SQLiteRecorder) Record(record dispatch.Record) {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	rec.pending = append(rec.pending, entryOf(record))
	if len(rec.pending) < rec.BatchSize {
		return
	}

	err := rec.flush()
	if err == nil {
		return
	}
	log.Printf("audit: %v: %v", rec.dbName, err)

	excess := len(rec.pending) - max(rec.MaxPending, rec.BatchSize)
	if excess > 0 {
		rec.pending = slices.Clone(rec.pending[excess:])
		rec.dropped += uint64(excess)
		log.Printf("audit: %v: dropped %d records", rec.dbName, excess)
	}
}

// Dropped returns the number of records lost to a failing database.
func (rec *SQLiteRecorder) Dropped() uint64 {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	return rec.dropped
}

// Flush writes all queued records to the database.
func (rec *SQLiteRecorder) Flush() (err error) {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	return rec.flush()
}

func (rec *SQLiteRecorder) flush() (err error) {
	if len(rec.pending) == 0 || rec.statement == nil {
		return
	}

	tx, err := rec.Begin()
	if err != nil {
		return
	}

	stmt := tx.Stmt(rec.statement)
	for _, entry := range rec.pending {
		var result []byte
		if len(entry.Result) > 0 {
			result, err = json.Marshal(entry.Result)
			if err != nil {
				break
			}
		}
		_, err = stmt.Exec(
			entry.ID,
			entry.Time.UnixNano(),
			entry.Duration,
			entry.Input,
			entry.Verb,
			entry.Address,
			entry.Count,
			entry.Value,
			string(result),
			entry.Status,
			entry.Truncated,
			entry.Error,
		)
		if err != nil {
			break
		}
	}

	if err != nil {
		tx.Rollback()
		return
	}

	err = tx.Commit()
	if err != nil {
		return
	}

	rec.pending = nil
	return
}

// Recent returns up to limit of the latest entries, newest first.
func (rec *SQLiteRecorder) Recent(limit int) (entries []Entry, err error) {
	err = rec.Flush()
	if err != nil {
		return
	}

	rows, err := rec.Query(`
		SELECT id, time, duration_ns, input, verb, address, count, value,
			result, status, truncated, error
		FROM commands ORDER BY time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var entry Entry
		var nanos int64
		var result string
		err = rows.Scan(
			&entry.ID,
			&nanos,
			&entry.Duration,
			&entry.Input,
			&entry.Verb,
			&entry.Address,
			&entry.Count,
			&entry.Value,
			&result,
			&entry.Status,
			&entry.Truncated,
			&entry.Error,
		)
		if err != nil {
			return
		}
		entry.Time = time.Unix(0, nanos)
		if len(result) > 0 {
			err = json.Unmarshal([]byte(result), &entry.Result)
			if err != nil {
				return
			}
		}
		entries = append(entries, entry)
	}

	err = rows.Err()
	return
}

// Close flushes the queue and closes the database.
func (rec *SQLiteRecorder) Close() (err error) {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	if rec.statement == nil {
		return
	}

	err = rec.flush()
	rec.statement.Close()
	rec.statement = nil

	e := rec.DB.Close()
	if err == nil {
		err = e
	}
	return
}
