package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
)

type operatorRepository struct {
	db *sql.DB
}

func NewOperatorRepository(db *sql.DB) repository.OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	query := `INSERT INTO operators (name, email, password_hash, role, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, op.Name, op.Email, op.PasswordHash, op.Role, time.Now()).Scan(&op.ID)
}

func (r *operatorRepository) GetByID(ctx context.Context, id int32) (*domain.Operator, error) {
	op := &domain.Operator{}
	query := `SELECT id, name, email, password_hash, role, created_on FROM operators WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&op.ID, &op.Name, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	op := &domain.Operator{}
	query := `SELECT id, name, email, password_hash, role, created_on FROM operators WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&op.ID, &op.Name, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (r *operatorRepository) List(ctx context.Context) ([]domain.Operator, error) {
	query := `SELECT id, name, email, password_hash, role, created_on FROM operators ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []domain.Operator
	for rows.Next() {
		var op domain.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedOn); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
