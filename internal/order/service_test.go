package order

import (
	"context"
	"errors"
	"testing"

	"psp-webhook/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Order, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, invoiceNumber string, status OrderStatus, statusCode int) (bool, error) {
	args := m.Called(ctx, invoiceNumber, status, statusCode)
	return args.Bool(0), args.Error(1)
}

func verified(code int, successful bool, outcome payment.Outcome) payment.StatusUpdateResult {
	return payment.StatusUpdateResult{
		Status:     "provider",
		StatusCode: code,
		Successful: successful,
		Outcome:    outcome,
		Verified:   true,
	}
}

func TestService_ApplyStatusUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Paid", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{InvoiceNumber: "INV-1", Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, "INV-1", StatusPaid, 190).Return(true, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(190, true, payment.OutcomeSuccess))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Success_PendingAllowListed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, "INV-1", StatusPaid, 791).Return(true, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(791, true, payment.OutcomePending))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Pending_Unchanged", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(792, false, payment.OutcomePending))
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByInvoiceNumber", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure_Failed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, "INV-1", StatusFailed, 490).Return(true, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(490, false, payment.OutcomeFailure))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Paid_NeverFailed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPaid}, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(890, false, payment.OutcomeFailure))
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaidConcurrently_Unchanged", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, "INV-1", StatusFailed, 490).Return(false, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(490, false, payment.OutcomeFailure))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyPaid_Idempotent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPaid}, nil).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(190, true, payment.OutcomeSuccess))
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unverified_Ignored", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		result := payment.StatusUpdateResult{Status: "Signature was incorrect.", StatusCode: 190}
		err := svc.ApplyStatusUpdate(ctx, "INV-1", result)
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByInvoiceNumber", mock.Anything, mock.Anything)
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-404").Return(nil, ErrOrderNotFound).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-404", verified(190, true, payment.OutcomeSuccess))
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("UpdateError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByInvoiceNumber", ctx, "INV-1").Return(&Order{Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", ctx, "INV-1", StatusPaid, 190).Return(false, errors.New("db error")).Once()

		err := svc.ApplyStatusUpdate(ctx, "INV-1", verified(190, true, payment.OutcomeSuccess))
		assert.EqualError(t, err, "db error")
	})
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.False(t, OrderStatus("ACCEPTED").Valid())
}
