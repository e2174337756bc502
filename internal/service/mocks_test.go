package service_test

import (
	"context"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockKeyRepo
type MockKeyRepo struct {
	mock.Mock
}

func (m *MockKeyRepo) Create(ctx context.Context, key *domain.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockKeyRepo) GetByID(ctx context.Context, id int32) (*domain.Key, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Key), args.Error(1)
}
func (m *MockKeyRepo) GetByIDs(ctx context.Context, ids []int32) ([]domain.Key, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Key), args.Error(1)
}
func (m *MockKeyRepo) Update(ctx context.Context, key *domain.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockKeyRepo) ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Key, error) {
	args := m.Called(ctx, rentalObjectCode)
	return args.Get(0).([]domain.Key), args.Error(1)
}
func (m *MockKeyRepo) SetDisposed(ctx context.Context, ids []int32, disposed bool, at time.Time) error {
	args := m.Called(ctx, ids, disposed, at)
	return args.Error(0)
}
func (m *MockKeyRepo) GetKeySystem(ctx context.Context, id int32) (*domain.KeySystem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeySystem), args.Error(1)
}

// MockCardRepo
type MockCardRepo struct {
	mock.Mock
}

func (m *MockCardRepo) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}
func (m *MockCardRepo) GetByID(ctx context.Context, id int32) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardRepo) GetByIDs(ctx context.Context, ids []int32) ([]domain.Card, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockCardRepo) Update(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}
func (m *MockCardRepo) ListByRentalObject(ctx context.Context, rentalObjectCode string) ([]domain.Card, error) {
	args := m.Called(ctx, rentalObjectCode)
	return args.Get(0).([]domain.Card), args.Error(1)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLoanRepo) ListByRentalObject(ctx context.Context, rentalObjectCode string, openOnly bool) ([]domain.Loan, error) {
	args := m.Called(ctx, rentalObjectCode, openOnly)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListForKey(ctx context.Context, keyID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, keyID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListForCard(ctx context.Context, cardID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) GetOpenForKey(ctx context.Context, keyID int32) (*domain.Loan, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) GetOpenForCard(ctx context.Context, cardID int32) (*domain.Loan, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListUnretrieved(ctx context.Context, olderThan time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.KeyEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int32) (*domain.KeyEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeyEvent), args.Error(1)
}
func (m *MockEventRepo) UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEventRepo) LatestForKeys(ctx context.Context, keyIDs []int32) (map[int32]domain.KeyEvent, error) {
	args := m.Called(ctx, keyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int32]domain.KeyEvent), args.Error(1)
}
func (m *MockEventRepo) ListOrderedOlderThan(ctx context.Context, cutoff time.Time) ([]domain.KeyEvent, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.KeyEvent), args.Error(1)
}

// MockContactRepo
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) GetByCode(ctx context.Context, code string) (*domain.Contact, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// MockLeaseRepo
type MockLeaseRepo struct {
	mock.Mock
}

func (m *MockLeaseRepo) GetByRentalObject(ctx context.Context, rentalObjectCode string) (*domain.Lease, error) {
	args := m.Called(ctx, rentalObjectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}

// MockReceiptRepo
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *domain.LoanReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}
func (m *MockReceiptRepo) GetByID(ctx context.Context, id string) (*domain.LoanReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanReceipt), args.Error(1)
}

// MockOperatorRepo
type MockOperatorRepo struct {
	mock.Mock
}

func (m *MockOperatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}
func (m *MockOperatorRepo) GetByID(ctx context.Context, id int32) (*domain.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}
func (m *MockOperatorRepo) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}
func (m *MockOperatorRepo) List(ctx context.Context) ([]domain.Operator, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Operator), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, operatorID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, operatorID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, operatorID int32) error {
	args := m.Called(ctx, id, operatorID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendFlexOrderedNotification(ctx context.Context, email, name string, group domain.FlexGroup, count int32) error {
	args := m.Called(ctx, email, name, group, count)
	return args.Error(0)
}
func (m *MockEmailService) SendFlexReceivedNotification(ctx context.Context, email, name string, group domain.FlexGroup, disposedCount int) error {
	args := m.Called(ctx, email, name, group, disposedCount)
	return args.Error(0)
}
func (m *MockEmailService) SendPickupReminder(ctx context.Context, email, contactName, rentalObjectCode string, createdAt time.Time) error {
	args := m.Called(ctx, email, contactName, rentalObjectCode, createdAt)
	return args.Error(0)
}
func (m *MockEmailService) SendStaleOrderNotification(ctx context.Context, email string, event *domain.KeyEvent) error {
	args := m.Called(ctx, email, event)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(operatorID int32, email, role string) (string, error) {
	args := m.Called(operatorID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(tokenString string) (*security.OperatorClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.OperatorClaims), args.Error(1)
}
