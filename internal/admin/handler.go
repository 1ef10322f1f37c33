package admin

import (
	"net/http"
	"strings"
	"time"

	"psp-webhook/internal/logger"
	"psp-webhook/internal/payment"
	"psp-webhook/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Payments payment.Repository
}

func NewHandler(payments payment.Repository) *Handler {
	return &Handler{Payments: payments}
}

type paymentLogResponse struct {
	ID            int64     `json:"id"`
	Provider      string    `json:"provider"`
	InvoiceNumber string    `json:"invoice_number"`
	StatusCode    int       `json:"status_code"`
	RequestBody   *string   `json:"request_body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListPaymentLogs serves GET /admin/payment-logs?invoice=..., newest first.
func (h *Handler) ListPaymentLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	invoiceNumber := strings.TrimSpace(r.URL.Query().Get("invoice"))
	if invoiceNumber == "" {
		utils.WriteJSONError(w, "invoice is required", http.StatusBadRequest)
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	log := logger.FromCtx(r.Context()).With(
		zap.String("handler", "list_payment_logs"),
		zap.String("invoice_number", invoiceNumber),
		zap.Uint("admin_id", adminID),
		zap.String("admin_email", utils.GetUserEmailFromContext(r.Context())),
	)

	logs, err := h.Payments.ListPaymentLogs(r.Context(), invoiceNumber)
	if err != nil {
		log.Error("failed to list payment logs", zap.Error(err))
		utils.WriteJSONError(w, "failed to list payment logs", http.StatusInternalServerError)
		return
	}

	resp := make([]paymentLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, paymentLogResponse{
			ID:            l.ID,
			Provider:      string(l.Provider),
			InvoiceNumber: l.InvoiceNumber,
			StatusCode:    l.StatusCode,
			RequestBody:   l.RequestBody,
			CreatedAt:     l.CreatedAt,
		})
	}

	log.Info("payment logs listed", zap.Int("count", len(resp)))
	utils.WriteJSON(w, http.StatusOK, resp)
}
