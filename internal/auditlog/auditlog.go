// Package auditlog keeps an append-only CSV trail of changes made through the
// API and the CLI.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Header is the first line of audit-log.csv.
const Header = "timestamp,user,action,entity,entity_id,details"

// RelPath is the log location relative to the data directory.
var RelPath = filepath.Join("logs", "audit-log.csv")

const numFields = 6

// Record is one audit row.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"` // create, update, delete, pay, import...
	Entity    string    `json:"entity"` // entry, sale, check...
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details,omitempty"`
}

func (r Record) row() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.User,
		r.Action,
		r.Entity,
		r.EntityID,
		r.Details,
	}
}

func parseRow(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", row[0], err)
	}
	return Record{
		Timestamp: ts,
		User:      row[1],
		Action:    row[2],
		Entity:    row[3],
		EntityID:  row[4],
		Details:   row[5],
	}, nil
}

// Log appends records under a data directory. It is safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Log writing to <dataDir>/logs/audit-log.csv.
func New(dataDir string) *Log {
	return &Log{path: filepath.Join(dataDir, RelPath), now: time.Now}
}

// Path returns the CSV file location.
func (l *Log) Path() string { return l.path }

// Record appends a single row stamped with the current time.
func (l *Log) Record(user, action, entity, entityID, details string) error {
	return l.Append(Record{
		Timestamp: l.now(),
		User:      user,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
	})
}

// Append writes records, creating the file and header if needed.
func (l *Log) Append(records ...Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	_, statErr := os.Stat(l.path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, r := range records {
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every record, oldest first. A missing file yields no records.
func (l *Log) Read() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
