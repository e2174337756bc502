package service_test

import (
	"context"
	"errors"
	"testing"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTransferService_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("Partitions Disposed From Carried", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		svc := service.NewTransferService(loanRepo, keyRepo, nil)

		loan := domain.Loan{ID: 1, ContactCode: "P-OLD", KeyIDs: []int32{1, 2}, CardIDs: []int32{30}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{loan}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1, 2}).Return([]domain.Key{
			{ID: 1},
			{ID: 2, Disposed: true},
		}, nil)

		detection, err := svc.Detect(ctx, "OBJ-1", []string{"P-OLD"})
		assert.NoError(t, err)
		assert.True(t, detection.HasExisting())
		assert.Len(t, detection.Loans, 1)
		assert.Equal(t, []int32{1}, detection.Loans[0].CarryKeyIDs)
		assert.Equal(t, []int32{2}, detection.Loans[0].DisposedKeyIDs)
		assert.Equal(t, []int32{30}, detection.Loans[0].CarryCardIDs)
	})

	t.Run("Shared Loan Counted Once", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		svc := service.NewTransferService(loanRepo, keyRepo, nil)

		second := "P-B"
		shared := domain.Loan{ID: 1, ContactCode: "P-A", Contact2Code: &second, KeyIDs: []int32{1}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{shared}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1}).Return([]domain.Key{{ID: 1}}, nil)

		detection, err := svc.Detect(ctx, "OBJ-1", []string{"P-A", "P-B"})
		assert.NoError(t, err)
		assert.Len(t, detection.Loans, 1)
	})

	t.Run("Other Tenant's Loan Not Matched", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		svc := service.NewTransferService(loanRepo, keyRepo, nil)

		other := domain.Loan{ID: 1, ContactCode: "P-OTHER", KeyIDs: []int32{1}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{other}, nil)

		detection, err := svc.Detect(ctx, "OBJ-1", []string{"P-NEW"})
		assert.NoError(t, err)
		assert.False(t, detection.HasExisting())
		keyRepo.AssertNotCalled(t, "GetByIDs", ctx, mock.Anything)
	})
}

func TestTransferService_Execute(t *testing.T) {
	ctx := context.Background()

	// Existing loan holds k1 (sound) and k2 (disposed); the transfer
	// requests k3. The merged loan must hold exactly {k1, k3}.
	t.Run("Merged Loan Carries Sound Keys", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		loanSvc := new(MockLoanService)
		svc := service.NewTransferService(loanRepo, keyRepo, loanSvc)

		existing := domain.Loan{ID: 1, ContactCode: "P-NEW", KeyIDs: []int32{1, 2}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{existing}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1, 2}).Return([]domain.Key{
			{ID: 1},
			{ID: 2, Disposed: true},
		}, nil)
		loanRepo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
			return l.ID == 1 && l.ReturnedAt != nil
		})).Return(nil)
		loanSvc.On("OpenLoan", ctx, mock.MatchedBy(func(in service.OpenLoanInput) bool {
			return assert.ObjectsAreEqual([]int32{3, 1}, in.KeyIDs)
		})).Return(&service.OpenLoanResult{Loan: &domain.Loan{ID: 2, KeyIDs: []int32{3, 1}}}, nil)

		result, err := svc.Execute(ctx, service.OpenLoanInput{
			RentalObjectCode: "OBJ-1",
			KeyIDs:           []int32{3},
			ContactCode:      "P-NEW",
		})
		assert.NoError(t, err)
		assert.ElementsMatch(t, []int32{1, 3}, result.Loan.KeyIDs)
		assert.Equal(t, 1, result.NewCount)
		assert.Equal(t, 1, result.TransferredCount)
		assert.Equal(t, []int32{1}, result.ClosedLoanIDs)
	})

	t.Run("Requested Item Already Carried Is Deduplicated", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		loanSvc := new(MockLoanService)
		svc := service.NewTransferService(loanRepo, keyRepo, loanSvc)

		existing := domain.Loan{ID: 1, ContactCode: "P-NEW", KeyIDs: []int32{1}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{existing}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1}).Return([]domain.Key{{ID: 1}}, nil)
		loanRepo.On("Update", ctx, mock.AnythingOfType("*domain.Loan")).Return(nil)
		loanSvc.On("OpenLoan", ctx, mock.MatchedBy(func(in service.OpenLoanInput) bool {
			return len(in.KeyIDs) == 1 && in.KeyIDs[0] == 1
		})).Return(&service.OpenLoanResult{Loan: &domain.Loan{ID: 2, KeyIDs: []int32{1}}}, nil)

		result, err := svc.Execute(ctx, service.OpenLoanInput{
			RentalObjectCode: "OBJ-1",
			KeyIDs:           []int32{1},
			ContactCode:      "P-NEW",
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, result.TransferredCount)
	})

	t.Run("Phase One Failure Aborts Phase Two", func(t *testing.T) {
		loanRepo := new(MockLoanRepo)
		keyRepo := new(MockKeyRepo)
		loanSvc := new(MockLoanService)
		svc := service.NewTransferService(loanRepo, keyRepo, loanSvc)

		existing := domain.Loan{ID: 1, ContactCode: "P-NEW", KeyIDs: []int32{1}}
		loanRepo.On("ListByRentalObject", ctx, "OBJ-1", true).Return([]domain.Loan{existing}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1}).Return([]domain.Key{{ID: 1}}, nil)
		loanRepo.On("Update", ctx, mock.AnythingOfType("*domain.Loan")).Return(errors.New("db down"))

		_, err := svc.Execute(ctx, service.OpenLoanInput{
			RentalObjectCode: "OBJ-1",
			KeyIDs:           []int32{2},
			ContactCode:      "P-NEW",
		})
		var seqErr *domain.SequenceError
		assert.ErrorAs(t, err, &seqErr)
		assert.Equal(t, "return-existing-loans", seqErr.Step)
		loanSvc.AssertNotCalled(t, "OpenLoan", ctx, mock.Anything)
	})
}

// MockLoanService lets transfer tests isolate phase 2.
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) OpenLoan(ctx context.Context, in service.OpenLoanInput) (*service.OpenLoanResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenLoanResult), args.Error(1)
}
func (m *MockLoanService) ReturnLoan(ctx context.Context, in service.ReturnLoanInput) (*service.ReturnLoanOutcome, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnLoanOutcome), args.Error(1)
}
func (m *MockLoanService) AcknowledgeReceipt(ctx context.Context, loanID int32) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
func (m *MockLoanService) GetLoan(ctx context.Context, loanID int32, includeCards bool) (*service.LoanDetails, error) {
	args := m.Called(ctx, loanID, includeCards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanDetails), args.Error(1)
}
func (m *MockLoanService) GetLoansForKey(ctx context.Context, keyID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, keyID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanService) GetLoansForCard(ctx context.Context, cardID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanService) RemoveLoan(ctx context.Context, loanID int32) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
