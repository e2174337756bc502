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

func TestKeyRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewKeyRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		flex := int32(2)
		rows := sqlmock.NewRows([]string{"id", "rental_object_code", "name", "type", "sequence_number", "flex_number", "disposed", "disposed_on", "key_system_id", "created_on"}).
			AddRow(1, "OBJ-1", "A", "APARTMENT", 1, flex, false, nil, nil, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM keys WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		key, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "A", key.Name)
		assert.Equal(t, int32(2), *key.FlexNumber)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM keys WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		key, err := repo.GetByID(ctx, 99)
		assert.Nil(t, key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestKeyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewKeyRepository(db)
	ctx := context.Background()

	flex := int32(1)
	key := &domain.Key{
		RentalObjectCode: "OBJ-1",
		Name:             "A",
		Type:             domain.KeyTypeApartment,
		SequenceNumber:   1,
		FlexNumber:       &flex,
	}

	mock.ExpectQuery("INSERT INTO keys").
		WithArgs(key.RentalObjectCode, key.Name, key.Type, key.SequenceNumber, key.FlexNumber, key.KeySystemID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	assert.NoError(t, repo.Create(ctx, key))
	assert.Equal(t, int32(5), key.ID)
}

func TestKeyRepository_SetDisposed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewKeyRepository(db)
	ctx := context.Background()

	t.Run("Dispose Sets Timestamp", func(t *testing.T) {
		mock.ExpectExec("UPDATE keys SET disposed").
			WithArgs(true, sqlmock.AnyArg(), pq.Int32Array([]int32{1, 2})).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.SetDisposed(ctx, []int32{1, 2}, true, time.Now()))
	})

	t.Run("Undo Clears Timestamp", func(t *testing.T) {
		mock.ExpectExec("UPDATE keys SET disposed").
			WithArgs(false, nil, pq.Int32Array([]int32{1})).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetDisposed(ctx, []int32{1}, false, time.Now()))
	})
}
