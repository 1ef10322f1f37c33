package order

import (
	"context"

	"psp-webhook/internal/logger"
	"psp-webhook/internal/payment"

	"go.uber.org/zap"
)

type Service interface {
	// ApplyStatusUpdate moves the order to PAID on a successful result and
	// to FAILED on a failed one. Unverified or pending results and repeated
	// deliveries leave the order unchanged; a PAID order never moves to FAILED.
	ApplyStatusUpdate(ctx context.Context, invoiceNumber string, result payment.StatusUpdateResult) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ApplyStatusUpdate(ctx context.Context, invoiceNumber string, result payment.StatusUpdateResult) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyStatusUpdate"),
		zap.String("invoice_number", invoiceNumber),
		zap.Int("status_code", result.StatusCode),
	)

	target, ok := targetStatus(result)
	if !ok {
		log.Info("status update leaves order unchanged", zap.Stringer("outcome", result.Outcome))
		return nil
	}

	o, err := s.repo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		log.Error("failed to load order", zap.Error(err))
		return err
	}

	if o.Status == target {
		log.Info("order already in target status", zap.String("status", string(target)))
		return nil
	}
	if o.Status == StatusPaid && target == StatusFailed {
		log.Warn("ignoring failure for paid order")
		return nil
	}

	updated, err := s.repo.UpdateStatus(ctx, invoiceNumber, target, result.StatusCode)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}
	if !updated {
		log.Warn("order paid concurrently, left unchanged", zap.String("status", string(target)))
		return nil
	}

	log.Info("order status updated",
		zap.String("from", string(o.Status)),
		zap.String("to", string(target)),
	)
	return nil
}

func targetStatus(result payment.StatusUpdateResult) (OrderStatus, bool) {
	switch {
	case !result.Verified:
		return "", false
	case result.Successful:
		return StatusPaid, true
	case result.Outcome == payment.OutcomePending:
		return "", false
	default:
		return StatusFailed, true
	}
}
