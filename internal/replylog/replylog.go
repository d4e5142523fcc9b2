// Package replylog persists a record of every posted reply.
package replylog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Schema is the reply log table definition.
const Schema = `
CREATE TABLE IF NOT EXISTS replies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trace_id TEXT,
	channel TEXT NOT NULL,
	pattern TEXT NOT NULL,
	label TEXT NOT NULL,
	reply_text TEXT NOT NULL,
	posted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_replies_trace ON replies(trace_id);
CREATE INDEX IF NOT EXISTS idx_replies_label ON replies(label);
`

// Reply is one logged reply.
type Reply struct {
	ID       int64     `json:"id"`
	TraceID  string    `json:"trace_id"`
	Channel  string    `json:"channel"`
	Pattern  string    `json:"pattern"`
	Label    string    `json:"label"`
	Text     string    `json:"reply_text"`
	PostedAt time.Time `json:"posted_at"`
}

// Service is a sqlite-backed reply log.
type Service struct {
	db *sql.DB
}

// NewService opens (or creates) the reply log database.
func NewService(dbPath string) (*Service, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open reply log db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Service{db: db}, nil
}

// Record logs one posted reply.
func (s *Service) Record(traceID, channel, pattern, label, text string) error {
	_, err := s.db.Exec(
		`INSERT INTO replies (trace_id, channel, pattern, label, reply_text, posted_at) VALUES (?, ?, ?, ?, ?, ?)`,
		traceID, channel, pattern, label, text, time.Now().UTC(),
	)
	return err
}

// Recent returns the latest n replies, newest first.
func (s *Service) Recent(n int) ([]Reply, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(
		`SELECT id, trace_id, channel, pattern, label, reply_text, posted_at FROM replies ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reply
	for rows.Next() {
		var r Reply
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Channel, &r.Pattern, &r.Label, &r.Text, &r.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the total number of logged replies.
func (s *Service) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM replies`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Service) Close() error {
	return s.db.Close()
}
