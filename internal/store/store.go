// Package store persists capture sessions and their measurement results in
// SQLite between capture rounds.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("not found")

// SessionStatus is the overall state of a capture session
type SessionStatus string

const (
	SessionInProgress  SessionStatus = "in_progress"
	SessionCompleted   SessionStatus = "completed"
	SessionNeedsReview SessionStatus = "needs_review"
)

// Session is a capture session and the results of its measurements
type Session struct {
	ID          string               `json:"id"`
	PresetID    string               `json:"presetId,omitempty"`
	Description string               `json:"description,omitempty"`
	HeightCm    float64              `json:"heightCm,omitempty"`
	Status      SessionStatus        `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Results     []measurement.Result `json:"results,omitempty"`
}

// MeasurementIDs returns the ids of the session's measurements in order
func (s *Session) MeasurementIDs() []string {
	ids := make([]string, len(s.Results))
	for i, r := range s.Results {
		ids[i] = r.MeasurementID
	}
	return ids
}

// Round is the summary of one recorded capture round
type Round struct {
	ID        string              `json:"id"`
	SessionID string              `json:"sessionId"`
	Number    int                 `json:"number"`
	Summary   measurement.Summary `json:"summary"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Store is a SQLite-backed session store
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies pending migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// m is not closed: closing it would close db as well
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// CreateSession starts a session for the given measurements, each with a
// fresh pending result.
func (s *Store) CreateSession(ctx context.Context, presetID, description string, heightCm float64, measurementIDs []string) (*Session, error) {
	if len(measurementIDs) == 0 {
		return nil, errors.New("a session needs at least one measurement")
	}

	now := s.now()
	session := &Session{
		ID:          uuid.New().String(),
		PresetID:    presetID,
		Description: description,
		HeightCm:    heightCm,
		Status:      SessionInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
		Results:     make([]measurement.Result, len(measurementIDs)),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (session_id, preset_id, description, height_cm, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID, presetID, description, heightCm, session.Status, now.UnixNano(), now.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i, id := range measurementIDs {
			r := measurement.NewResult(id)
			session.Results[i] = r
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO measurement_results (session_id, measurement_id, position, unit, status, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				session.ID, id, i, r.Unit, r.Status, now.UnixNano(),
			); err != nil {
				return fmt.Errorf("insert result %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a session with its results
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, preset_id, description, height_cm, status, created_at, updated_at
		FROM sessions
		WHERE session_id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	session.Results, err = s.Results(ctx, id)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns all sessions, newest first, without their results
func (s *Store) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, preset_id, description, height_cm, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Results returns the results of a session in measurement order
func (s *Store) Results(ctx context.Context, sessionID string) ([]measurement.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT measurement_id, value, unit, confidence, capture_attempts, status, flag_reason
		FROM measurement_results
		WHERE session_id = ?
		ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []measurement.Result
	for rows.Next() {
		var r measurement.Result
		if err := rows.Scan(&r.MeasurementID, &r.Value, &r.Unit, &r.Confidence, &r.CaptureAttempts, &r.Status, &r.FlagReason); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SaveRound stores the results of a capture round, records its summary and
// updates the session status. Results must belong to the session, and a
// result may never lower the stored attempt count.
func (s *Store) SaveRound(ctx context.Context, sessionID string, batch measurement.BatchResult) (*Round, error) {
	now := s.now()
	round := &Round{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Summary:   batch.Summary,
		CreatedAt: now,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE session_id = ?`, sessionID).Scan(&exists); err != nil {
			return fmt.Errorf("query session: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}

		for _, r := range batch.Results {
			var attempts int
			err := tx.QueryRowContext(ctx, `
				SELECT capture_attempts FROM measurement_results
				WHERE session_id = ? AND measurement_id = ?`, sessionID, r.MeasurementID).Scan(&attempts)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("measurement %s is not part of session %s", r.MeasurementID, sessionID)
			}
			if err != nil {
				return fmt.Errorf("query result %s: %w", r.MeasurementID, err)
			}
			if r.CaptureAttempts < attempts {
				return fmt.Errorf("measurement %s: capture attempts would decrease from %d to %d", r.MeasurementID, attempts, r.CaptureAttempts)
			}

			if _, err := tx.ExecContext(ctx, `
				UPDATE measurement_results
				SET value = ?, unit = ?, confidence = ?, capture_attempts = ?, status = ?, flag_reason = ?, updated_at = ?
				WHERE session_id = ? AND measurement_id = ?`,
				r.Value, r.Unit, r.Confidence, r.CaptureAttempts, r.Status, r.FlagReason, now.UnixNano(),
				sessionID, r.MeasurementID,
			); err != nil {
				return fmt.Errorf("update result %s: %w", r.MeasurementID, err)
			}
		}

		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(round_number), 0) + 1 FROM capture_rounds WHERE session_id = ?`, sessionID).Scan(&round.Number); err != nil {
			return fmt.Errorf("query round number: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO capture_rounds (round_id, session_id, round_number, total, validated, needs_recapture, flagged, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			round.ID, sessionID, round.Number,
			batch.Summary.Total, batch.Summary.Validated, batch.Summary.NeedsRecapture, batch.Summary.Flagged,
			now.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert round: %w", err)
		}

		status, err := sessionStatus(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE sessions SET status = ?, updated_at = ? WHERE session_id = ?`,
			status, now.UnixNano(), sessionID,
		); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// Rounds returns the recorded rounds of a session in order
func (s *Store) Rounds(ctx context.Context, sessionID string) ([]Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round_id, session_id, round_number, total, validated, needs_recapture, flagged, created_at
		FROM capture_rounds
		WHERE session_id = ?
		ORDER BY round_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var (
			r       Round
			created int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Number,
			&r.Summary.Total, &r.Summary.Validated, &r.Summary.NeedsRecapture, &r.Summary.Flagged,
			&created); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// DeleteSession removes a session and everything recorded for it
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// StatusFor derives the session status from its results: completed once
// every result is validated, needs_review once nothing is pending but
// something is flagged.
func StatusFor(results []measurement.Result) SessionStatus {
	validated, flagged := 0, 0
	for _, r := range results {
		switch r.Status {
		case measurement.StatusValidated:
			validated++
		case measurement.StatusFlagged:
			flagged++
		}
	}
	switch {
	case len(results) > 0 && validated == len(results):
		return SessionCompleted
	case flagged > 0 && validated+flagged == len(results):
		return SessionNeedsReview
	default:
		return SessionInProgress
	}
}

func sessionStatus(ctx context.Context, tx *sql.Tx, sessionID string) (SessionStatus, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT status FROM measurement_results WHERE session_id = ?`, sessionID)
	if err != nil {
		return "", fmt.Errorf("query statuses: %w", err)
	}
	defer rows.Close()

	var results []measurement.Result
	for rows.Next() {
		var r measurement.Result
		if err := rows.Scan(&r.Status); err != nil {
			return "", fmt.Errorf("scan status: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return StatusFor(results), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		s                Session
		created, updated int64
	)
	if err := row.Scan(&s.ID, &s.PresetID, &s.Description, &s.HeightCm, &s.Status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.CreatedAt = time.Unix(0, created)
	s.UpdatedAt = time.Unix(0, updated)
	return &s, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
