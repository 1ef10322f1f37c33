package webhook

import (
	"errors"
	"fmt"
	"net/http"

	"psp-webhook/internal/logger"
	"psp-webhook/internal/order"
	"psp-webhook/internal/payment/buckaroo"
	"psp-webhook/internal/settings"
	"psp-webhook/internal/transport"

	"go.uber.org/zap"
)

// Handler receives Buckaroo push requests.
type Handler struct {
	Settings   settings.Store
	Service    buckaroo.Service
	OrderSvc   order.Service
	ProviderID int64
}

func NewWebhookHandler(store settings.Store, svc buckaroo.Service, orderSvc order.Service, providerID int64) *Handler {
	return &Handler{
		Settings:   store,
		Service:    svc,
		OrderSvc:   orderSvc,
		ProviderID: providerID,
	}
}

// BuckarooWebhookHandler acknowledges every push with 200 so the provider
// stops retrying, except when the payment method is misconfigured or the
// order could not be updated.
func (h *Handler) BuckarooWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := transport.WithHTTP(r.Context(), r, w)

	invoiceNumber := h.Service.GetInvoiceNumberFromRequest(ctx)
	if invoiceNumber != "" {
		ctx = logger.WithInvoiceNumber(ctx, invoiceNumber)
	}
	log := logger.FromCtx(ctx).With(zap.String("handler", "buckaroo_webhook"))

	creds, err := h.Settings.GetBuckarooSettings(ctx, h.ProviderID)
	if err != nil {
		log.Error("failed to load buckaroo settings", zap.Int64("provider_id", h.ProviderID), zap.Error(err))
		http.Error(w, "payment method unavailable", http.StatusInternalServerError)
		return
	}

	result, err := h.Service.ProcessStatusUpdate(ctx, creds)
	if err != nil {
		if buckaroo.IsConfigError(err) {
			http.Error(w, "payment method misconfigured", http.StatusInternalServerError)
			return
		}
		log.Error("unexpected status update error", zap.Error(err))
		http.Error(w, "failed to process status update", http.StatusInternalServerError)
		return
	}

	if result.Verified {
		err := h.OrderSvc.ApplyStatusUpdate(ctx, invoiceNumber, result)
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			log.Warn("status update for unknown order", zap.Int("status_code", result.StatusCode))
		case err != nil:
			http.Error(w, "failed to update order", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
