package service

import (
	"context"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
)

// KeyWithStatus is a key decorated with the loan/event/key-system data
// the portal's inventory screens render next to it.
type KeyWithStatus struct {
	domain.Key
	Loan        *domain.Loan     `json:"loan,omitempty"`
	LatestEvent *domain.KeyEvent `json:"latest_event,omitempty"`
	KeySystem   *domain.KeySystem `json:"key_system,omitempty"`
}

type CardWithStatus struct {
	domain.Card
	Loan *domain.Loan `json:"loan,omitempty"`
}

type InventoryService interface {
	ListKeys(ctx context.Context, rentalObjectCode string, opts repository.KeyListOptions) ([]KeyWithStatus, error)
	ListCards(ctx context.Context, rentalObjectCode string, includeLoans bool) ([]CardWithStatus, error)
	CreateKey(ctx context.Context, key *domain.Key) error
	UpdateKey(ctx context.Context, key *domain.Key) error
	// DisposeKeys retires a batch; UndoDisposal reverses the same batch
	// while the undo window is still open.
	DisposeKeys(ctx context.Context, keyIDs []int32) error
	UndoDisposal(ctx context.Context, keyIDs []int32) error
}

// OpenLoanInput carries everything needed to lend items out.
type OpenLoanInput struct {
	RentalObjectCode string
	Type             domain.LoanType
	KeyIDs           []int32
	CardIDs          []int32
	ContactCode      string
	Contact2Code     *string
	Comment          string
}

type OpenLoanResult struct {
	Loan *domain.Loan
	// ReceiptID is empty when the supplementary receipt record could
	// not be created; the loan itself still stands.
	ReceiptID string
}

// ReturnLoanInput describes a full or partial return. KeyIDs/CardIDs
// are the items physically on the counter; SelectedKeyIDs and
// SelectedCardIDs are what the operator marks as returned on the
// receipt, tracked independently so "5 due back, 3 produced" is
// recordable.
type ReturnLoanInput struct {
	KeyIDs          []int32
	CardIDs         []int32
	SelectedKeyIDs  []int32
	SelectedCardIDs []int32
	AvailableFrom   *time.Time
	Comment         string
	// Replacement marks a mid-tenancy key swap: the matched loans are
	// returned in full and one new loan re-opens with only the items
	// confirmed present.
	Replacement bool
}

type ReturnLoanOutcome struct {
	ReturnedLoans  []domain.Loan
	MissingKeyIDs  []int32
	MissingCardIDs []int32
	// ReceiptKeyIDs/ReceiptCardIDs are the items recorded as returned on
	// the receipt: the operator's selection, or the items physically
	// produced when no selection was made.
	ReceiptKeyIDs   []int32
	ReceiptCardIDs  []int32
	ReplacementLoan *domain.Loan
	ReceiptID       string
}

type LoanService interface {
	OpenLoan(ctx context.Context, in OpenLoanInput) (*OpenLoanResult, error)
	ReturnLoan(ctx context.Context, in ReturnLoanInput) (*ReturnLoanOutcome, error)
	// AcknowledgeReceipt records the physical hand-over; pickedUpAt
	// stays null until the signed receipt comes back.
	AcknowledgeReceipt(ctx context.Context, loanID int32) error
	GetLoan(ctx context.Context, loanID int32, includeCards bool) (*LoanDetails, error)
	GetLoansForKey(ctx context.Context, keyID int32) ([]domain.Loan, error)
	GetLoansForCard(ctx context.Context, cardID int32) ([]domain.Loan, error)
	// RemoveLoan deletes an unreturned loan; it fails with a
	// precondition error while items are still out.
	RemoveLoan(ctx context.Context, loanID int32) error
}

type LoanDetails struct {
	Loan  domain.Loan
	Keys  []domain.Key
	Cards []domain.Card
}

// TransferLoan is one existing open loan matched during transfer
// detection, partitioned into what carries forward and what is shown
// for audit only.
type TransferLoan struct {
	Loan           domain.Loan
	CarryKeyIDs    []int32
	CarryCardIDs   []int32
	DisposedKeyIDs []int32
}

type TransferDetection struct {
	Loans []TransferLoan
}

func (d *TransferDetection) HasExisting() bool {
	return len(d.Loans) > 0
}

type TransferResult struct {
	Loan             *domain.Loan
	ClosedLoanIDs    []int32
	NewCount         int
	TransferredCount int
	ReceiptID        string
}

type TransferService interface {
	Detect(ctx context.Context, rentalObjectCode string, contactCodes []string) (*TransferDetection, error)
	// Execute returns every matched loan in full, then opens one loan
	// holding the requested items plus everything carried forward.
	Execute(ctx context.Context, in OpenLoanInput) (*TransferResult, error)
}

// FlexGroupRequest asks for one group's re-cut. Baseline must be set
// when the group's current flex number is unknown; the engine never
// guesses one.
type FlexGroupRequest struct {
	Group    domain.FlexGroup
	Count    int32
	Baseline *int32
}

type FlexGenerationResult struct {
	Group      domain.FlexGroup
	FlexNumber int32
	Keys       []domain.Key
	EventID    int32
}

type FlexService interface {
	// Plan groups the selection and validates each group without
	// writing anything.
	Plan(ctx context.Context, keyIDs []int32) ([]FlexGroupPlan, error)
	Generate(ctx context.Context, rentalObjectCode string, keyIDs []int32, requests []FlexGroupRequest) ([]FlexGenerationResult, error)
	OrderExtraKeys(ctx context.Context, keyIDs []int32) (*domain.KeyEvent, error)
}

type FlexGroupPlan struct {
	Group       domain.FlexGroup
	CurrentFlex *int32
	KeyIDs      []int32
	// Conflict is set when selected keys of the group disagree on
	// their current flex number; generation is blocked for the group.
	Conflict bool
}

// IncomingKind classifies what a key's latest event says is on its way
// from the locksmith.
type IncomingKind string

const (
	IncomingNone     IncomingKind = "NONE"
	IncomingExtraKey IncomingKind = "EXTRA_KEY"
	IncomingFlex     IncomingKind = "FLEX"
)

type ReceiveResult struct {
	Event               *domain.KeyEvent
	AlreadyReceived     bool
	DisposedKeyIDs      []int32
	AutoReturnedLoanIDs []int32
}

type ReconciliationService interface {
	IncomingForKeys(ctx context.Context, keyIDs []int32) (map[int32]IncomingKind, error)
	// MarkReceived moves the event to RECEIVED. For flex events the
	// given older-generation keys are disposed and any open loan left
	// with nothing but disposed keys is auto-returned. Calling it on a
	// RECEIVED event is a no-op.
	MarkReceived(ctx context.Context, eventID int32, disposeKeyIDs []int32) (*ReceiveResult, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, operatorID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, operatorID, notificationID int32) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateOperator(ctx context.Context, name, email, password string, role domain.OperatorRole) (*domain.Operator, error)
}

type EmailService interface {
	SendFlexOrderedNotification(ctx context.Context, email, name string, group domain.FlexGroup, count int32) error
	SendFlexReceivedNotification(ctx context.Context, email, name string, group domain.FlexGroup, disposedCount int) error
	SendPickupReminder(ctx context.Context, email, contactName, rentalObjectCode string, createdAt time.Time) error
	SendStaleOrderNotification(ctx context.Context, email string, event *domain.KeyEvent) error
}
