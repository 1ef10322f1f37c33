package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	invoiceKey   ctxKey = "invoice_number"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithInvoiceNumber tags every log line from FromCtx with the invoice number.
func WithInvoiceNumber(ctx context.Context, invoiceNumber string) context.Context {
	return context.WithValue(ctx, invoiceKey, invoiceNumber)
}

// FromCtx returns logger with request_id and invoice_number when present.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if inv, ok := ctx.Value(invoiceKey).(string); ok && inv != "" {
		l = l.With(zap.String("invoice_number", inv))
	}
	return l
}
