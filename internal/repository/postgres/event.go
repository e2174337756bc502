package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"

	"github.com/lib/pq"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, type, status, key_ids, created_on, updated_on`

func scanEvent(row interface{ Scan(...any) error }) (*domain.KeyEvent, error) {
	e := &domain.KeyEvent{}
	var keyIDs pq.Int32Array
	err := row.Scan(&e.ID, &e.Type, &e.Status, &keyIDs, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	e.KeyIDs = []int32(keyIDs)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.KeyEvent) error {
	now := time.Now()
	query := `INSERT INTO key_events (type, status, key_ids, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, e.Type, e.Status, pq.Int32Array(e.KeyIDs), now, now).Scan(&e.ID); err != nil {
		return err
	}
	e.CreatedOn = now
	e.UpdatedOn = now
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int32) (*domain.KeyEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM key_events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	query := `UPDATE key_events SET status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

// LatestForKeys folds the newest event per key into an explicit index,
// so "latest" is a query result rather than an ordering assumption.
func (r *eventRepository) LatestForKeys(ctx context.Context, keyIDs []int32) (map[int32]domain.KeyEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM key_events WHERE key_ids && $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Int32Array(keyIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wanted := make(map[int32]bool, len(keyIDs))
	for _, id := range keyIDs {
		wanted[id] = true
	}

	latest := make(map[int32]domain.KeyEvent)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		for _, keyID := range e.KeyIDs {
			if !wanted[keyID] {
				continue
			}
			if _, seen := latest[keyID]; !seen {
				latest[keyID] = *e
			}
		}
	}
	return latest, rows.Err()
}

func (r *eventRepository) ListOrderedOlderThan(ctx context.Context, cutoff time.Time) ([]domain.KeyEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM key_events WHERE status = $1 AND created_on < $2 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, domain.EventStatusOrdered, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.KeyEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
