package service_test

import (
	"context"
	"testing"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReconcileFixture() (*MockEventRepo, *MockKeyRepo, *MockLoanRepo, *MockEmailService, service.ReconciliationService) {
	eventRepo := new(MockEventRepo)
	keyRepo := new(MockKeyRepo)
	loanRepo := new(MockLoanRepo)
	emailSvc := new(MockEmailService)
	svc := service.NewReconciliationService(eventRepo, keyRepo, loanRepo, emailSvc, "office@test.com")
	return eventRepo, keyRepo, loanRepo, emailSvc, svc
}

func TestReconciliationService_IncomingForKeys(t *testing.T) {
	ctx := context.Background()
	eventRepo, _, _, _, svc := newReconcileFixture()

	eventRepo.On("LatestForKeys", ctx, []int32{1, 2, 3, 4}).Return(map[int32]domain.KeyEvent{
		1: {ID: 10, Type: domain.EventTypeOrder, Status: domain.EventStatusOrdered, KeyIDs: []int32{1}},
		2: {ID: 11, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{2}},
		3: {ID: 12, Type: domain.EventTypeFlex, Status: domain.EventStatusReceived, KeyIDs: []int32{3}},
	}, nil)

	kinds, err := svc.IncomingForKeys(ctx, []int32{1, 2, 3, 4})
	assert.NoError(t, err)
	assert.Equal(t, service.IncomingExtraKey, kinds[1])
	assert.Equal(t, service.IncomingFlex, kinds[2])
	// A received event means nothing more is on its way
	assert.Equal(t, service.IncomingNone, kinds[3])
	// No event at all
	assert.Equal(t, service.IncomingNone, kinds[4])
}

func TestReconciliationService_MarkReceived(t *testing.T) {
	ctx := context.Background()

	t.Run("Repeat Call Is NoOp", func(t *testing.T) {
		eventRepo, keyRepo, _, _, svc := newReconcileFixture()
		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusReceived, KeyIDs: []int32{5},
		}, nil)

		res, err := svc.MarkReceived(ctx, 10, []int32{1})
		assert.NoError(t, err)
		assert.True(t, res.AlreadyReceived)
		assert.Empty(t, res.DisposedKeyIDs)
		eventRepo.AssertNotCalled(t, "UpdateStatus", ctx, mock.Anything, mock.Anything)
		keyRepo.AssertNotCalled(t, "SetDisposed", ctx, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Extra Key Order Has No Disposal", func(t *testing.T) {
		eventRepo, _, _, _, svc := newReconcileFixture()
		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeOrder, Status: domain.EventStatusOrdered, KeyIDs: []int32{5},
		}, nil)

		_, err := svc.MarkReceived(ctx, 10, []int32{1})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Extra Key Order Received", func(t *testing.T) {
		eventRepo, _, _, _, svc := newReconcileFixture()
		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeOrder, Status: domain.EventStatusOrdered, KeyIDs: []int32{5},
		}, nil)
		eventRepo.On("UpdateStatus", ctx, int32(10), domain.EventStatusReceived).Return(nil)

		res, err := svc.MarkReceived(ctx, 10, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.EventStatusReceived, res.Event.Status)
	})

	t.Run("Flex Receive Disposes And Sweeps Loans", func(t *testing.T) {
		eventRepo, keyRepo, loanRepo, emailSvc, svc := newReconcileFixture()

		// Event covers the incoming flex-2 batch; key 1 is the flex-1
		// predecessor still sitting on an open loan.
		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{20, 21},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{20, 21}).Return([]domain.Key{
			{ID: 20, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
			{ID: 21, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1}).Return([]domain.Key{
			{ID: 1, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(1), Disposed: true},
		}, nil)
		eventRepo.On("UpdateStatus", ctx, int32(10), domain.EventStatusReceived).Return(nil)
		keyRepo.On("SetDisposed", ctx, []int32{1}, true, mock.AnythingOfType("time.Time")).Return(nil)
		loanRepo.On("GetOpenForKey", ctx, int32(1)).Return(&domain.Loan{ID: 7, KeyIDs: []int32{1}}, nil)
		loanRepo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
			return l.ID == 7 && l.ReturnedAt != nil
		})).Return(nil)
		emailSvc.On("SendFlexReceivedNotification", ctx, "office@test.com", "", mock.Anything, 1).Return(nil)

		res, err := svc.MarkReceived(ctx, 10, []int32{1})
		assert.NoError(t, err)
		assert.Equal(t, []int32{1}, res.DisposedKeyIDs)
		assert.Equal(t, []int32{7}, res.AutoReturnedLoanIDs)
	})

	t.Run("Disposal Outside Group Rejected", func(t *testing.T) {
		eventRepo, keyRepo, _, _, svc := newReconcileFixture()

		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{20},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{20}).Return([]domain.Key{
			{ID: 20, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{99}).Return([]domain.Key{
			{ID: 99, Name: "G", Type: domain.KeyTypeGarage, FlexNumber: int32p(1)},
		}, nil)

		_, err := svc.MarkReceived(ctx, 10, []int32{99})
		assert.True(t, domain.IsValidation(err))
		eventRepo.AssertNotCalled(t, "UpdateStatus", ctx, mock.Anything, mock.Anything)
	})

	t.Run("Disposal Of Same Generation Rejected", func(t *testing.T) {
		eventRepo, keyRepo, _, _, svc := newReconcileFixture()

		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{20},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{20}).Return([]domain.Key{
			{ID: 20, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{21}).Return([]domain.Key{
			{ID: 21, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)

		_, err := svc.MarkReceived(ctx, 10, []int32{21})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Disposal Of Incoming Batch Key Rejected", func(t *testing.T) {
		eventRepo, keyRepo, _, _, svc := newReconcileFixture()

		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{20, 21},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{20, 21}).Return([]domain.Key{
			{ID: 20, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
			{ID: 21, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{21}).Return([]domain.Key{
			{ID: 21, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)

		_, err := svc.MarkReceived(ctx, 10, []int32{21})
		assert.True(t, domain.IsValidation(err))
		eventRepo.AssertNotCalled(t, "UpdateStatus", ctx, mock.Anything, mock.Anything)
	})

	t.Run("Mixed Loan Stays Open After Sweep", func(t *testing.T) {
		eventRepo, keyRepo, loanRepo, emailSvc, svc := newReconcileFixture()

		eventRepo.On("GetByID", ctx, int32(10)).Return(&domain.KeyEvent{
			ID: 10, Type: domain.EventTypeFlex, Status: domain.EventStatusOrdered, KeyIDs: []int32{20},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{20}).Return([]domain.Key{
			{ID: 20, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(2)},
		}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1}).Return([]domain.Key{
			{ID: 1, Name: "A", Type: domain.KeyTypeApartment, FlexNumber: int32p(1), Disposed: true},
		}, nil)
		eventRepo.On("UpdateStatus", ctx, int32(10), domain.EventStatusReceived).Return(nil)
		keyRepo.On("SetDisposed", ctx, []int32{1}, true, mock.AnythingOfType("time.Time")).Return(nil)
		// The loan also holds key 2, which is still sound.
		loanRepo.On("GetOpenForKey", ctx, int32(1)).Return(&domain.Loan{ID: 7, KeyIDs: []int32{1, 2}}, nil)
		keyRepo.On("GetByIDs", ctx, []int32{1, 2}).Return([]domain.Key{
			{ID: 1, Disposed: true},
			{ID: 2},
		}, nil)
		emailSvc.On("SendFlexReceivedNotification", ctx, "office@test.com", "", mock.Anything, 1).Return(nil)

		res, err := svc.MarkReceived(ctx, 10, []int32{1})
		assert.NoError(t, err)
		assert.Empty(t, res.AutoReturnedLoanIDs)
		loanRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})
}
