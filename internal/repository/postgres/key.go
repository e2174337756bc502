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

type keyRepository struct {
	db *sql.DB
}

func NewKeyRepository(db *sql.DB) repository.KeyRepository {
	return &keyRepository{db: db}
}

const keyColumns = `id, rental_object_code, name, type, sequence_number, flex_number, disposed, disposed_on, key_system_id, created_on`

func scanKey(row interface{ Scan(...any) error }) (*domain.Key, error) {
	k := &domain.Key{}
	err := row.Scan(&k.ID, &k.RentalObjectCode, &k.Name, &k.Type, &k.SequenceNumber, &k.FlexNumber, &k.Disposed, &k.DisposedOn, &k.KeySystemID, &k.CreatedOn)
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (r *keyRepository) Create(ctx context.Context, k *domain.Key) error {
	query := `INSERT INTO keys (rental_object_code, name, type, sequence_number, flex_number, key_system_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, k.RentalObjectCode, k.Name, k.Type, k.SequenceNumber, k.FlexNumber, k.KeySystemID, time.Now()).Scan(&k.ID)
}

func (r *keyRepository) GetByID(ctx context.Context, id int32) (*domain.Key, error) {
	query := `SELECT ` + keyColumns + ` FROM keys WHERE id = $1`
	k, err := scanKey(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return k, err
}

func (r *keyRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.Key, error) {
	query := `SELECT ` + keyColumns + ` FROM keys WHERE id = ANY($1) ORDER BY name, type, sequence_number`
	rows, err := r.db.QueryContext(ctx, query, pq.Int32Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

func (r *keyRepository) Update(ctx context.Context, k *domain.Key) error {
	query := `UPDATE keys SET name=$1, type=$2, sequence_number=$3, flex_number=$4, disposed=$5, disposed_on=$6, key_system_id=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, k.Name, k.Type, k.SequenceNumber, k.FlexNumber, k.Disposed, k.DisposedOn, k.KeySystemID, k.ID)
	return err
}

func (r *keyRepository) ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Key, error) {
	query := `SELECT ` + keyColumns + ` FROM keys WHERE rental_object_code = $1 ORDER BY name, type, flex_number NULLS FIRST, sequence_number`
	rows, err := r.db.QueryContext(ctx, query, rentalObjectCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

func (r *keyRepository) SetDisposed(ctx context.Context, ids []int32, disposed bool, at time.Time) error {
	var disposedOn *time.Time
	if disposed {
		disposedOn = &at
	}
	query := `UPDATE keys SET disposed=$1, disposed_on=$2 WHERE id = ANY($3)`
	_, err := r.db.ExecContext(ctx, query, disposed, disposedOn, pq.Int32Array(ids))
	return err
}

func (r *keyRepository) GetKeySystem(ctx context.Context, id int32) (*domain.KeySystem, error) {
	ks := &domain.KeySystem{}
	query := `SELECT id, system_code, caption FROM key_systems WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ks.ID, &ks.SystemCode, &ks.Caption)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ks, nil
}
