// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package history keeps resolved rolls in SQLite.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
)

//go:embed schema.sql
var schema string

// ErrNotConfigured is returned by a nil or closed store.
var ErrNotConfigured = errors.New("history store is not configured")

// Record is one resolved roll.
type Record struct {
	ID          int64            `json:"id"`
	Face        die.Face         `json:"face"`
	Pose        orientation.Pose `json:"pose"`
	Axis        orientation.Vec3 `json:"axis"`
	TargetAngle float64          `json:"target_angle"`
	Ticks       int              `json:"ticks"`
	RolledAt    time.Time        `json:"rolled_at"`
}

// Store persists roll history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle. Later calls return ErrNotConfigured.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// Append stores one roll and returns its id. A zero RolledAt is set to now.
func (s *Store) Append(ctx context.Context, rec Record) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, ErrNotConfigured
	}
	if !rec.Face.Valid() {
		return 0, fmt.Errorf("face %d is out of range", int(rec.Face))
	}
	if rec.RolledAt.IsZero() {
		rec.RolledAt = time.Now()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rolls (
		   face, roll, pitch, yaw, axis_x, axis_y, axis_z, target_angle, ticks, rolled_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int(rec.Face),
		rec.Pose.Roll, rec.Pose.Pitch, rec.Pose.Yaw,
		rec.Axis.X, rec.Axis.Y, rec.Axis.Z,
		rec.TargetAngle,
		rec.Ticks,
		toMillis(rec.RolledAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert roll: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("roll id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit rolls, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, face, roll, pitch, yaw, axis_x, axis_y, axis_z, target_angle, ticks, rolled_at
		   FROM rolls
		  ORDER BY id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query rolls: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			face     int
			rolledAt int64
		)
		if err := rows.Scan(
			&rec.ID, &face,
			&rec.Pose.Roll, &rec.Pose.Pitch, &rec.Pose.Yaw,
			&rec.Axis.X, &rec.Axis.Y, &rec.Axis.Z,
			&rec.TargetAngle, &rec.Ticks, &rolledAt,
		); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		rec.Face = die.Face(face)
		rec.RolledAt = fromMillis(rolledAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rolls: %w", err)
	}
	return out, nil
}

// Counts returns how often each face came up. Faces never rolled map to 0.
func (s *Store) Counts(ctx context.Context) (map[die.Face]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}

	counts := make(map[die.Face]int, die.FaceCount)
	for _, f := range die.Faces() {
		counts[f] = 0
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT face, COUNT(*) FROM rolls GROUP BY face`)
	if err != nil {
		return nil, fmt.Errorf("count rolls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var face, n int
		if err := rows.Scan(&face, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[die.Face(face)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
