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

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, rental_object_code, type, contact_code, contact2_code, key_ids, card_ids, created_at, picked_up_at, returned_at, available_from, comment`

func scanLoan(row interface{ Scan(...any) error }) (*domain.Loan, error) {
	l := &domain.Loan{}
	var keyIDs, cardIDs pq.Int32Array
	err := row.Scan(&l.ID, &l.RentalObjectCode, &l.Type, &l.ContactCode, &l.Contact2Code, &keyIDs, &cardIDs, &l.CreatedAt, &l.PickedUpAt, &l.ReturnedAt, &l.AvailableFrom, &l.Comment)
	if err != nil {
		return nil, err
	}
	l.KeyIDs = []int32(keyIDs)
	l.CardIDs = []int32(cardIDs)
	return l, nil
}

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (rental_object_code, type, contact_code, contact2_code, key_ids, card_ids, created_at, picked_up_at, available_from, comment)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
		l.CreatedAt = createdAt
	}
	return r.db.QueryRowContext(ctx, query, l.RentalObjectCode, l.Type, l.ContactCode, l.Contact2Code, pq.Int32Array(l.KeyIDs), pq.Int32Array(l.CardIDs), createdAt, l.PickedUpAt, l.AvailableFrom, l.Comment).Scan(&l.ID)
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

func (r *loanRepository) Update(ctx context.Context, l *domain.Loan) error {
	query := `UPDATE loans SET key_ids=$1, card_ids=$2, picked_up_at=$3, returned_at=$4, available_from=$5, comment=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, pq.Int32Array(l.KeyIDs), pq.Int32Array(l.CardIDs), l.PickedUpAt, l.ReturnedAt, l.AvailableFrom, l.Comment, l.ID)
	return err
}

func (r *loanRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return err
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) ListByRentalObject(ctx context.Context, rentalObjectCode string, openOnly bool) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE rental_object_code = $1`
	if openOnly {
		query += ` AND returned_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, rentalObjectCode)
}

func (r *loanRepository) ListForKey(ctx context.Context, keyID int32) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE key_ids @> ARRAY[$1::int] ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, keyID)
}

func (r *loanRepository) ListForCard(ctx context.Context, cardID int32) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE card_ids @> ARRAY[$1::int] ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, cardID)
}

func (r *loanRepository) GetOpenForKey(ctx context.Context, keyID int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE key_ids @> ARRAY[$1::int] AND returned_at IS NULL`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, keyID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

func (r *loanRepository) GetOpenForCard(ctx context.Context, cardID int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE card_ids @> ARRAY[$1::int] AND returned_at IS NULL`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

func (r *loanRepository) ListUnretrieved(ctx context.Context, olderThan time.Time) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans
	          WHERE returned_at IS NULL AND picked_up_at IS NULL AND created_at < $1
	          ORDER BY created_at`
	return r.queryLoans(ctx, query, olderThan)
}
