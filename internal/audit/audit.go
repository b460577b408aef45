// Package audit records per-connection login/disconnect events. It is
// ambient operational visibility, not gameplay: a thin generalization of the
// teacher's SessionManager (in-memory session lookup keyed by account) into
// an append-only log of {uuid, username, remote_addr, connected_at,
// disconnected_at, reason} rows.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one audit row.
type Event struct {
	UUID           uuid.UUID
	Username       string
	RemoteAddr     string
	ConnectedAt    time.Time
	DisconnectedAt *time.Time
	Reason         string
}

// Sink persists audit events. RecordConnect is called once a client
// finishes Config and enters Play; RecordDisconnect is called from the
// disconnect observer.
type Sink interface {
	RecordConnect(ctx context.Context, ev Event)
	RecordDisconnect(ctx context.Context, username string, at time.Time, reason string)
}

// NoopSink discards every event. It is the default when no database DSN is
// configured, matching spec.md's "Database" config leaving registry/audit
// storage optional.
type NoopSink struct{}

func (NoopSink) RecordConnect(context.Context, Event)                             {}
func (NoopSink) RecordDisconnect(context.Context, string, time.Time, string) {}

// PostgresSink writes rows into the audit_events table created by
// internal/db's goose migrations.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink returns a Sink backed by pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// RecordConnect inserts a new audit row. Failures are logged, not returned:
// audit logging must never disrupt the connection pipeline it observes.
func (s *PostgresSink) RecordConnect(ctx context.Context, ev Event) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_events (uuid, username, remote_addr, connected_at) VALUES ($1, $2, $3, $4)`,
		ev.UUID, ev.Username, ev.RemoteAddr, ev.ConnectedAt,
	)
	if err != nil {
		slog.Warn("audit: recording connect failed", "username", ev.Username, "error", err)
	}
}

// RecordDisconnect updates the most recent open row for username with a
// disconnect timestamp and reason.
func (s *PostgresSink) RecordDisconnect(ctx context.Context, username string, at time.Time, reason string) {
	_, err := s.pool.Exec(ctx,
		`UPDATE audit_events SET disconnected_at = $1, reason = $2
		 WHERE id = (
		   SELECT id FROM audit_events
		   WHERE username = $3 AND disconnected_at IS NULL
		   ORDER BY connected_at DESC LIMIT 1
		 )`,
		at, reason, username,
	)
	if err != nil {
		slog.Warn("audit: recording disconnect failed", "username", username, "error", err)
	}
}

// NewSink picks PostgresSink when pool is non-nil, else NoopSink.
func NewSink(pool *pgxpool.Pool) Sink {
	if pool == nil {
		return NoopSink{}
	}
	return NewPostgresSink(pool)
}
