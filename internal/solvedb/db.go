// Package solvedb records solver results in a local sqlite database so runs
// can be compared across parameter sets.
package solvedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the solve-history database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS solves (
			id                TEXT PRIMARY KEY,
			created_at        TEXT,
			mode              BIGINT,
			harmonic          BIGINT,
			radius_nm         DOUBLE,
			vel_long_mps      DOUBLE,
			vel_trans_mps     DOUBLE,
			step_hz           DOUBLE,
			start_ghz         DOUBLE,
			omega_rad_s       DOUBLE,
			frequency_ghz     DOUBLE
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// Solve is one recorded solver run.
type Solve struct {
	ID           string
	CreatedAt    time.Time
	Mode         int
	Harmonic     int
	RadiusNM     float64
	VelLong      float64
	VelTrans     float64
	StepHz       float64
	StartGHz     float64
	Omega        float64
	FrequencyGHz float64
}

// RecordSolve inserts a solve row and returns its generated id.
func (db *DB) RecordSolve(s Solve) (string, error) {
	id := uuid.NewString()
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO solves (
			id, created_at, mode, harmonic, radius_nm, vel_long_mps,
			vel_trans_mps, step_hz, start_ghz, omega_rad_s, frequency_ghz
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, createdAt.Format(time.RFC3339Nano), s.Mode, s.Harmonic, s.RadiusNM,
		s.VelLong, s.VelTrans, s.StepHz, s.StartGHz, s.Omega, s.FrequencyGHz,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record solve: %w", err)
	}
	return id, nil
}

// ListSolves returns up to limit solves, most recent first.
func (db *DB) ListSolves(limit int) ([]Solve, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT id, created_at, mode, harmonic, radius_nm, vel_long_mps,
		       vel_trans_mps, step_hz, start_ghz, omega_rad_s, frequency_ghz
		FROM solves
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		var s Solve
		var createdAt string
		if err := rows.Scan(&s.ID, &createdAt, &s.Mode, &s.Harmonic, &s.RadiusNM,
			&s.VelLong, &s.VelTrans, &s.StepHz, &s.StartGHz, &s.Omega, &s.FrequencyGHz); err != nil {
			return nil, fmt.Errorf("failed to scan solve row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			s.CreatedAt = ts
		}
		solves = append(solves, s)
	}
	return solves, rows.Err()
}
