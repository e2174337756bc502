package postgres

import (
	"context"
	"database/sql"
	"errors"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"

	"github.com/lib/pq"
)

type leaseRepository struct {
	db *sql.DB
}

func NewLeaseRepository(db *sql.DB) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

// GetByRentalObject returns the most recent lease for the object; the
// loan preconditions only care whether that lease has ended.
func (r *leaseRepository) GetByRentalObject(ctx context.Context, rentalObjectCode string) (*domain.Lease, error) {
	l := &domain.Lease{}
	var contactCodes pq.StringArray
	query := `SELECT id, rental_object_code, contact_codes, start_date, end_date, status
	          FROM leases WHERE rental_object_code = $1 ORDER BY start_date DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, rentalObjectCode).Scan(&l.ID, &l.RentalObjectCode, &contactCodes, &l.StartDate, &l.EndDate, &l.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.ContactCodes = []string(contactCodes)
	return l, nil
}
