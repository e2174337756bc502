package repository

import (
	"context"
	"time"

	"keyportal-backend/internal/domain"
)

// KeyListOptions mirror the include flags of the portal's list call.
type KeyListOptions struct {
	IncludeLoans     bool
	IncludeEvents    bool
	IncludeKeySystem bool
}

type KeyRepository interface {
	Create(ctx context.Context, key *domain.Key) error
	GetByID(ctx context.Context, id int32) (*domain.Key, error)
	GetByIDs(ctx context.Context, ids []int32) ([]domain.Key, error)
	Update(ctx context.Context, key *domain.Key) error
	ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Key, error)
	// SetDisposed flips the disposed flag on a batch. Used both for
	// disposal and for undo, which is just the same write reversed.
	SetDisposed(ctx context.Context, ids []int32, disposed bool, at time.Time) error
	GetKeySystem(ctx context.Context, id int32) (*domain.KeySystem, error)
}

type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id int32) (*domain.Card, error)
	GetByIDs(ctx context.Context, ids []int32) ([]domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Card, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, id int32) error
	ListByRentalObject(ctx context.Context, rentalObjectCode string, openOnly bool) ([]domain.Loan, error)
	ListForKey(ctx context.Context, keyID int32) ([]domain.Loan, error)
	ListForCard(ctx context.Context, cardID int32) ([]domain.Loan, error)
	// GetOpenForKey returns the open loan holding the key, or
	// domain.ErrNotFound when the key is in stock.
	GetOpenForKey(ctx context.Context, keyID int32) (*domain.Loan, error)
	GetOpenForCard(ctx context.Context, cardID int32) (*domain.Loan, error)
	ListUnretrieved(ctx context.Context, olderThan time.Time) ([]domain.Loan, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.KeyEvent) error
	GetByID(ctx context.Context, id int32) (*domain.KeyEvent, error)
	UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error
	// LatestForKeys returns at most one event per key, the most recent
	// by creation time.
	LatestForKeys(ctx context.Context, keyIDs []int32) (map[int32]domain.KeyEvent, error)
	ListOrderedOlderThan(ctx context.Context, cutoff time.Time) ([]domain.KeyEvent, error)
}

type ContactRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Contact, error)
}

type LeaseRepository interface {
	GetByRentalObject(ctx context.Context, rentalObjectCode string) (*domain.Lease, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.LoanReceipt) error
	GetByID(ctx context.Context, id string) (*domain.LoanReceipt, error)
}

type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) error
	GetByID(ctx context.Context, id int32) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	List(ctx context.Context) ([]domain.Operator, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, operatorID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, operatorID int32) error
}
