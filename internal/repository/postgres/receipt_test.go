package postgres_test

import (
	"context"
	"testing"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestReceiptRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewReceiptRepository(db)
	ctx := context.Background()

	receipt := &domain.LoanReceipt{
		ID:      "rcpt-1",
		LoanID:  7,
		Type:    domain.ReceiptTypeReturn,
		KeyIDs:  []int32{1, 2},
		CardIDs: []int32{30},
	}

	mock.ExpectExec("INSERT INTO loan_receipts").
		WithArgs(receipt.ID, receipt.LoanID, receipt.Type, pq.Int32Array(receipt.KeyIDs), pq.Int32Array(receipt.CardIDs), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Create(ctx, receipt))
	assert.False(t, receipt.CreatedOn.IsZero())
}

func TestReceiptRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewReceiptRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "loan_id", "type", "key_ids", "card_ids", "created_on"}).
		AddRow("rcpt-1", 7, "RETURN", pq.Int32Array([]int32{1, 2}), pq.Int32Array(nil), time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM loan_receipts WHERE id = \$1`).
		WithArgs("rcpt-1").
		WillReturnRows(rows)

	rc, err := repo.GetByID(ctx, "rcpt-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(7), rc.LoanID)
	assert.Equal(t, []int32{1, 2}, rc.KeyIDs)
	assert.Empty(t, rc.CardIDs)
}
