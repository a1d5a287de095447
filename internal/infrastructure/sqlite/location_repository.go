package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wardwatch/wardwatch/internal/location"
)

// LocationRepository implements location.Repository.
type LocationRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ location.Repository = (*LocationRepository)(nil)

func newLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db, now: time.Now}
}

// locationModel is the row shape; timestamps are Unix milliseconds.
type locationModel struct {
	ID        int64
	URL       string
	CreatedAt int64
	UpdatedAt int64
}

func (m locationModel) toDomain() location.Entry {
	return location.Entry{
		ID:        m.ID,
		URL:       m.URL,
		CreatedAt: time.UnixMilli(m.CreatedAt),
		UpdatedAt: time.UnixMilli(m.UpdatedAt),
	}
}

func scanLocation(scanner interface{ Scan(...any) error }) (locationModel, error) {
	var m locationModel
	err := scanner.Scan(&m.ID, &m.URL, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Current returns the newest entry or location.ErrNoEntries.
func (r *LocationRepository) Current(ctx context.Context) (location.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, created_at, updated_at FROM locations ORDER BY id DESC LIMIT 1`)
	m, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return location.Entry{}, location.ErrNoEntries
	}
	if err != nil {
		return location.Entry{}, fmt.Errorf("failed to read current location: %w", err)
	}
	return m.toDomain(), nil
}

// Push appends a new entry.
func (r *LocationRepository) Push(ctx context.Context, url string) (location.Entry, error) {
	now := r.now().UnixMilli()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (url, created_at, updated_at) VALUES (?, ?, ?)`,
		url, now, now)
	if err != nil {
		return location.Entry{}, fmt.Errorf("failed to insert location: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return location.Entry{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return locationModel{ID: id, URL: url, CreatedAt: now, UpdatedAt: now}.toDomain(), nil
}

// Replace rewrites the newest entry, or pushes when history is empty.
func (r *LocationRepository) Replace(ctx context.Context, url string) (location.Entry, error) {
	cur, err := r.Current(ctx)
	if errors.Is(err, location.ErrNoEntries) {
		return r.Push(ctx, url)
	}
	if err != nil {
		return location.Entry{}, err
	}

	now := r.now().UnixMilli()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE locations SET url = ?, updated_at = ? WHERE id = ?`,
		url, now, cur.ID); err != nil {
		return location.Entry{}, fmt.Errorf("failed to update location: %w", err)
	}
	cur.URL = url
	cur.UpdatedAt = time.UnixMilli(now)
	return cur, nil
}

// History returns up to limit entries, newest first. limit <= 0 returns all.
func (r *LocationRepository) History(ctx context.Context, limit int) ([]location.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, created_at, updated_at FROM locations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var entries []location.Entry
	for rows.Next() {
		m, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		entries = append(entries, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return entries, nil
}

// Prune keeps only the newest keep entries.
func (r *LocationRepository) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM locations WHERE id NOT IN (SELECT id FROM locations ORDER BY id DESC LIMIT ?)`,
		keep); err != nil {
		return fmt.Errorf("failed to prune locations: %w", err)
	}
	return nil
}
