package postgres

import (
	"database/sql"
	"keyportal-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.KeyRepository
	repository.CardRepository
	repository.LoanRepository
	repository.EventRepository
	repository.ContactRepository
	repository.LeaseRepository
	repository.ReceiptRepository
	repository.OperatorRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		KeyRepository:          NewKeyRepository(db),
		CardRepository:         NewCardRepository(db),
		LoanRepository:         NewLoanRepository(db),
		EventRepository:        NewEventRepository(db),
		ContactRepository:      NewContactRepository(db),
		LeaseRepository:        NewLeaseRepository(db),
		ReceiptRepository:      NewReceiptRepository(db),
		OperatorRepository:     NewOperatorRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
