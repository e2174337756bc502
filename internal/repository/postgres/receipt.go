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

type receiptRepository struct {
	db *sql.DB
}

func NewReceiptRepository(db *sql.DB) repository.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, rc *domain.LoanReceipt) error {
	query := `INSERT INTO loan_receipts (id, loan_id, type, key_ids, card_ids, created_on) VALUES ($1, $2, $3, $4, $5, $6)`
	createdOn := rc.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now()
		rc.CreatedOn = createdOn
	}
	_, err := r.db.ExecContext(ctx, query, rc.ID, rc.LoanID, rc.Type, pq.Int32Array(rc.KeyIDs), pq.Int32Array(rc.CardIDs), createdOn)
	return err
}

func (r *receiptRepository) GetByID(ctx context.Context, id string) (*domain.LoanReceipt, error) {
	rc := &domain.LoanReceipt{}
	var keyIDs, cardIDs pq.Int32Array
	query := `SELECT id, loan_id, type, key_ids, card_ids, created_on FROM loan_receipts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rc.ID, &rc.LoanID, &rc.Type, &keyIDs, &cardIDs, &rc.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rc.KeyIDs = []int32(keyIDs)
	rc.CardIDs = []int32(cardIDs)
	return rc, nil
}
