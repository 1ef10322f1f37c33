package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"psp-webhook/internal/order"
	"psp-webhook/internal/payment"
	"psp-webhook/internal/payment/buckaroo"
	"psp-webhook/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) GetBuckarooSettings(ctx context.Context, providerID int64) (buckaroo.Credentials, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(buckaroo.Credentials), args.Error(1)
}

type MockBuckarooService struct {
	mock.Mock
}

func (m *MockBuckarooService) ProcessStatusUpdate(ctx context.Context, creds buckaroo.Credentials) (payment.StatusUpdateResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(payment.StatusUpdateResult), args.Error(1)
}

func (m *MockBuckarooService) GetInvoiceNumberFromRequest(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ApplyStatusUpdate(ctx context.Context, invoiceNumber string, result payment.StatusUpdateResult) error {
	args := m.Called(ctx, invoiceNumber, result)
	return args.Error(0)
}

var testCreds = buckaroo.Credentials{
	WebsiteKey:      "website",
	SecretKey:       "abc",
	HashMethod:      buckaroo.HashMethodSHA1,
	PushContentType: buckaroo.PushContentTypeHTTPPost,
}

func newPushRequest() *http.Request {
	return httptest.NewRequest(http.MethodPost, "/webhook/buckaroo?brq_invoicenumber=INV-1", strings.NewReader("brq_statuscode=190"))
}

func TestHandler_BuckarooWebhookHandler(t *testing.T) {
	paid := payment.StatusUpdateResult{Status: "Success", StatusCode: 190, Successful: true, Outcome: payment.OutcomeSuccess, Verified: true}

	t.Run("Success_Paid", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
		svc.On("ProcessStatusUpdate", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := transport.Request(ctx)
			return ok
		}), testCreds).Return(paid, nil)
		orders.On("ApplyStatusUpdate", mock.Anything, "INV-1", paid).Return(nil)

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		store.AssertExpectations(t)
		svc.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("Unverified_Acknowledged", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		rejected := payment.StatusUpdateResult{Status: buckaroo.StatusMessageSignatureIncorrect, StatusCode: 190}
		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
		svc.On("ProcessStatusUpdate", mock.Anything, testCreds).Return(rejected, nil)

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		orders.AssertNotCalled(t, "ApplyStatusUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Settings_Error", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(buckaroo.Credentials{}, errors.New("db down"))

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		svc.AssertNotCalled(t, "ProcessStatusUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Config_Error", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		cfgErr := &buckaroo.ConfigError{Setting: "push content type", Value: 3, Err: buckaroo.ErrUnsupportedPushContentType}
		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
		svc.On("ProcessStatusUpdate", mock.Anything, testCreds).Return(payment.StatusUpdateResult{}, cfgErr)

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "misconfigured")
	})

	t.Run("Order_NotFound_Acknowledged", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
		svc.On("ProcessStatusUpdate", mock.Anything, testCreds).Return(paid, nil)
		orders.On("ApplyStatusUpdate", mock.Anything, "INV-1", paid).Return(order.ErrOrderNotFound)

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Order_UpdateError", func(t *testing.T) {
		store, svc, orders := new(MockSettingsStore), new(MockBuckarooService), new(MockOrderService)
		h := NewWebhookHandler(store, svc, orders, 3)

		svc.On("GetInvoiceNumberFromRequest", mock.Anything).Return("INV-1")
		store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
		svc.On("ProcessStatusUpdate", mock.Anything, testCreds).Return(paid, nil)
		orders.On("ApplyStatusUpdate", mock.Anything, "INV-1", paid).Return(errors.New("db error"))

		w := httptest.NewRecorder()
		h.BuckarooWebhookHandler(w, newPushRequest())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandler_BuckarooWebhookHandler_EndToEnd(t *testing.T) {
	store, orders := new(MockSettingsStore), new(MockOrderService)
	h := NewWebhookHandler(store, buckaroo.NewService(nil, nil, nil), orders, 3)

	values := url.Values{
		"brq_invoicenumber": {"INV-1001"},
		"brq_statuscode":    {"190"},
		"brq_statusmessage": {"Success"},
	}
	sig, err := buckaroo.ComputeFormSignature(buckaroo.Canonicalize(values), "abc", buckaroo.HashMethodSHA1)
	require.NoError(t, err)
	values.Set(buckaroo.SignatureField, sig)

	req := httptest.NewRequest(http.MethodPost, "/webhook/buckaroo", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	store.On("GetBuckarooSettings", mock.Anything, int64(3)).Return(testCreds, nil)
	orders.On("ApplyStatusUpdate", mock.Anything, "INV-1001", mock.MatchedBy(func(r payment.StatusUpdateResult) bool {
		return r.Successful && r.StatusCode == 190 && r.Verified
	})).Return(nil)

	w := httptest.NewRecorder()
	h.BuckarooWebhookHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}
