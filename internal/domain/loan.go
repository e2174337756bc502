package domain

import "time"

type LoanType string

const (
	LoanTypeTenant      LoanType = "TENANT"
	LoanTypeMaintenance LoanType = "MAINTENANCE"
)

// Loan records one or more keys and/or cards lent together to one or
// two contacts. A loan is open until ReturnedAt is set; an item belongs
// to at most one open loan at any time.
type Loan struct {
	ID               int32      `json:"id"`
	RentalObjectCode string     `json:"rental_object_code"`
	Type             LoanType   `json:"type"`
	ContactCode      string     `json:"contact_code"`
	Contact2Code     *string    `json:"contact2_code,omitempty"`
	KeyIDs           []int32    `json:"key_ids"`
	CardIDs          []int32    `json:"card_ids"`
	CreatedAt        time.Time  `json:"created_at"`
	PickedUpAt       *time.Time `json:"picked_up_at,omitempty"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
	AvailableFrom    *time.Time `json:"available_from,omitempty"`
	Comment          string     `json:"comment"`
}

func (l *Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// HeldBy reports whether the given contact is a party to this loan.
func (l *Loan) HeldBy(contactCode string) bool {
	if l.ContactCode == contactCode {
		return true
	}
	return l.Contact2Code != nil && *l.Contact2Code == contactCode
}

func (l *Loan) ContainsKey(keyID int32) bool {
	for _, id := range l.KeyIDs {
		if id == keyID {
			return true
		}
	}
	return false
}

func (l *Loan) ContainsCard(cardID int32) bool {
	for _, id := range l.CardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// LoanReceipt is the supplementary record produced when a loan is
// opened or returned so a paper receipt can be printed and signed.
// KeyIDs and CardIDs hold the items the operator marked on the
// receipt; on a return that can be fewer than the loan held.
// Receipt creation failing never rolls back the loan itself.
type LoanReceipt struct {
	ID        string      `json:"id"`
	LoanID    int32       `json:"loan_id"`
	Type      ReceiptType `json:"type"`
	KeyIDs    []int32     `json:"key_ids"`
	CardIDs   []int32     `json:"card_ids"`
	CreatedOn time.Time   `json:"created_on"`
}

type ReceiptType string

const (
	ReceiptTypeLoan   ReceiptType = "LOAN"
	ReceiptTypeReturn ReceiptType = "RETURN"
)
