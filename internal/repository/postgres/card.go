package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"

	"github.com/lib/pq"
)

type cardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, c *domain.Card) error {
	codes, err := json.Marshal(c.Codes)
	if err != nil {
		return err
	}
	query := `INSERT INTO cards (rental_object_code, name, disabled, codes, owner_contact_code, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.RentalObjectCode, c.Name, c.Disabled, codes, c.OwnerContactCode, time.Now()).Scan(&c.ID)
}

func scanCard(row interface{ Scan(...any) error }) (*domain.Card, error) {
	c := &domain.Card{}
	var codes []byte
	err := row.Scan(&c.ID, &c.RentalObjectCode, &c.Name, &c.Disabled, &codes, &c.OwnerContactCode, &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	if len(codes) > 0 {
		if err := json.Unmarshal(codes, &c.Codes); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int32) (*domain.Card, error) {
	query := `SELECT id, rental_object_code, name, disabled, codes, owner_contact_code, created_on FROM cards WHERE id = $1`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.Card, error) {
	query := `SELECT id, rental_object_code, name, disabled, codes, owner_contact_code, created_on FROM cards WHERE id = ANY($1) ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, pq.Int32Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) Update(ctx context.Context, c *domain.Card) error {
	codes, err := json.Marshal(c.Codes)
	if err != nil {
		return err
	}
	query := `UPDATE cards SET name=$1, disabled=$2, codes=$3, owner_contact_code=$4 WHERE id=$5`
	_, err = r.db.ExecContext(ctx, query, c.Name, c.Disabled, codes, c.OwnerContactCode, c.ID)
	return err
}

func (r *cardRepository) ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Card, error) {
	query := `SELECT id, rental_object_code, name, disabled, codes, owner_contact_code, created_on FROM cards WHERE rental_object_code = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, rentalObjectCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}
