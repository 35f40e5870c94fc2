// Package store persists scan results to Postgres, one row per extracted
// entity. Entity ids are regenerated on every scan, so each scan inserts
// fresh rows keyed by its scan id rather than upserting.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campusscan/internal/scanner"
)

type DB struct {
	pool *pgxpool.Pool
	log  *log.Logger
}

// New connects a pgx pool to the given database URL.
func New(ctx context.Context, connString string, logger *log.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DB{pool: pool, log: logger}, nil
}

// SaveScan writes one scan's extracted entities transactionally and returns
// the generated scan id.
func (db *DB) SaveScan(ctx context.Context, startURL string, result scanner.ScanResult) (string, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin scan transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	scanID := uuid.NewString()
	_, err = tx.Exec(ctx,
		`INSERT INTO scans (id, start_url, scanned_at) VALUES ($1, $2, $3)`,
		scanID, startURL, time.Now())
	if err != nil {
		return "", fmt.Errorf("insert scan row: %w", err)
	}

	for _, c := range result.Campuses {
		_, err = tx.Exec(ctx,
			`INSERT INTO campuses (id, scan_id, name, code, location, description, source_url, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, scanID, c.Name, c.Code, c.Location, c.Description, c.SourceURL, c.Confidence)
		if err != nil {
			return "", fmt.Errorf("insert campus %s: %w", c.Name, err)
		}
	}

	for _, f := range result.Faculties {
		_, err = tx.Exec(ctx,
			`INSERT INTO faculties (id, scan_id, name, code, description, source_url, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.ID, scanID, f.Name, f.Code, f.Description, f.SourceURL, f.Confidence)
		if err != nil {
			return "", fmt.Errorf("insert faculty %s: %w", f.Name, err)
		}
	}

	for _, c := range result.Courses {
		_, err = tx.Exec(ctx,
			`INSERT INTO courses (id, scan_id, name, code, duration_years, minimum_aps, required_subjects, source_url, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID, scanID, c.Name, c.Code, c.DurationYears,
			c.Requirements.MinimumAPS, c.Requirements.RequiredSubjects,
			c.SourceURL, c.Confidence)
		if err != nil {
			return "", fmt.Errorf("insert course %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit scan %s: %w", scanID, err)
	}

	db.log.Info("scan persisted",
		"scan_id", scanID,
		"campuses", len(result.Campuses),
		"faculties", len(result.Faculties),
		"courses", len(result.Courses))
	return scanID, nil
}

func (db *DB) Close() {
	db.pool.Close()
}
