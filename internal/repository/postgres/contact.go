package postgres

import (
	"context"
	"database/sql"
	"errors"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) GetByCode(ctx context.Context, code string) (*domain.Contact, error) {
	c := &domain.Contact{}
	query := `SELECT code, name, email, phone FROM contacts WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&c.Code, &c.Name, &c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
