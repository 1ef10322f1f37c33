package buckaroo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"psp-webhook/internal/logger"
	"psp-webhook/internal/payment"
	"psp-webhook/internal/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusRecorder observes every processed status update.
type StatusRecorder interface {
	ObserveStatusUpdate(provider, pushContentType string, outcome payment.Outcome)
}

type Service interface {
	// ProcessStatusUpdate verifies the push request bound to ctx (see
	// transport.WithHTTP) and maps it to a result. A result is returned on
	// every path and the payment log is always written. The error is non-nil
	// only for a *ConfigError.
	ProcessStatusUpdate(ctx context.Context, creds Credentials) (payment.StatusUpdateResult, error)
	GetInvoiceNumberFromRequest(ctx context.Context) string
}

type service struct {
	audit         payment.AuditLogger
	authenticator PushAuthenticator
	recorder      StatusRecorder

	now      func() time.Time
	newNonce func() string
}

func NewService(audit payment.AuditLogger, authenticator PushAuthenticator, recorder StatusRecorder) Service {
	return &service{
		audit:         audit,
		authenticator: authenticator,
		recorder:      recorder,
		now:           time.Now,
		newNonce: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

func (s *service) ProcessStatusUpdate(ctx context.Context, creds Credentials) (result payment.StatusUpdateResult, err error) {
	var (
		invoiceNumber string
		requestBody   *string
	)

	log := logger.FromCtx(ctx).With(
		zap.String("provider", string(payment.ProviderBuckaroo)),
		zap.Stringer("push_content_type", creds.PushContentType),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Error processing Buckaroo status update",
				zap.String("invoice_number", invoiceNumber),
				zap.Error(fmt.Errorf("%w: %v", ErrUnexpectedInternalFault, rec)),
				zap.Stack("stack"),
			)
			result = failureResult(StatusMessageInternalFault, 0)
			err = nil
		}

		s.logIncomingPaymentAction(ctx, log, invoiceNumber, result.StatusCode, requestBody)
		if s.recorder != nil {
			s.recorder.ObserveStatusUpdate(string(payment.ProviderBuckaroo), creds.PushContentType.String(), result.Outcome)
		}
	}()

	r, ok := transport.Request(ctx)
	if !ok {
		log.Warn("Unable to process Buckaroo status update", zap.Error(ErrNoHTTPContext))
		return failureResult(StatusMessageNoRequest, 0), nil
	}

	invoiceNumber, err = InvoiceNumber(r)
	if err != nil {
		log.Warn("Unable to process Buckaroo status update", zap.Error(err))
		return failureResult(StatusMessageNoInvoiceNumber, 0), nil
	}
	log = log.With(zap.String("invoice_number", invoiceNumber))

	switch creds.PushContentType {
	case PushContentTypeJSON:
		return s.handleJSONStatusUpdate(log, r, creds, &requestBody), nil
	case PushContentTypeHTTPPost:
		return s.handleFormStatusUpdate(log, r, creds)
	default:
		err = &ConfigError{Setting: "push content type", Value: int(creds.PushContentType), Err: ErrUnsupportedPushContentType}
		log.Error("Buckaroo payment method is misconfigured", zap.Error(err))
		return failureResult(StatusMessageMisconfigured, 0), err
	}
}

func (s *service) GetInvoiceNumberFromRequest(ctx context.Context) string {
	r, ok := transport.Request(ctx)
	if !ok {
		return ""
	}
	invoiceNumber, err := InvoiceNumber(r)
	if err != nil {
		return ""
	}
	return invoiceNumber
}

// handleJSONStatusUpdate stores the raw body in requestBody as soon as it has
// been read, so the payment log keeps it even if verification panics.
func (s *service) handleJSONStatusUpdate(log *zap.Logger, r *http.Request, creds Credentials, requestBody **string) payment.StatusUpdateResult {
	notification, err := Parse(TransportJSON, r)
	if err != nil {
		log.Error("Error processing Buckaroo status update", zap.Error(err))
		return failureResult(StatusMessageInternalFault, 0)
	}
	body := string(notification.Body)
	*requestBody = &body

	timestamp := strconv.FormatInt(s.now().UTC().Unix(), 10)
	push, err := s.authenticator.AuthenticateAndParse(notification.Body, http.MethodPost, timestamp, s.newNonce(), creds.WebhookURL, creds.keys())
	switch {
	case errors.Is(err, ErrSignatureAuthenticationFailed):
		log.Error("Buckaroo push signature authentication failed", zap.Error(err))
		return failureResult(StatusMessageSignatureIncorrect, 0)
	case err != nil:
		log.Error("Error processing Buckaroo status update", zap.Error(err))
		return failureResult(StatusMessageInternalFault, 0)
	}

	if push == nil || push.Transaction.Status == nil {
		log.Warn("Buckaroo push contains no transaction status")
		return failureResult("Push contains no transaction status.", 0)
	}

	code := push.Transaction.Status.Code
	result := MapStatus(TransportJSON, code.Code, code.Description)
	logOutcome(log, result)
	return result
}

func (s *service) handleFormStatusUpdate(log *zap.Logger, r *http.Request, creds Credentials) (payment.StatusUpdateResult, error) {
	notification, err := Parse(TransportFormPost, r)
	if err != nil {
		log.Error("Error processing Buckaroo status update", zap.Error(err))
		return failureResult(StatusMessageInternalFault, 0), nil
	}

	statusCode, err := strconv.Atoi(notification.Fields.Get(StatusCodeField))
	if err != nil {
		log.Warn("Buckaroo push has an invalid status code", zap.String("status_code", notification.Fields.Get(StatusCodeField)))
		return failureResult(fmt.Sprintf("Invalid status code '%d'", 0), 0), nil
	}

	outcome, err := VerifyFormSignature(notification.Fields, notification.SuppliedSignature, creds.SecretKey, creds.HashMethod)
	if err != nil {
		log.Error("Buckaroo payment method is misconfigured", zap.Error(err))
		return failureResult(StatusMessageMisconfigured, 0), err
	}

	if !outcome.Valid {
		log.Error("Buckaroo push signature authentication failed",
			zap.Error(ErrSignatureAuthenticationFailed),
			zap.String("reason", outcome.Reason),
			zap.Int("status_code", statusCode),
		)
		return failureResult(StatusMessageSignatureIncorrect, statusCode), nil
	}

	result := MapStatus(TransportFormPost, statusCode, notification.Fields.Get(StatusMessageField))
	logOutcome(log, result)
	return result, nil
}

func logOutcome(log *zap.Logger, result payment.StatusUpdateResult) {
	if result.Successful {
		log.Info("Buckaroo status update processed",
			zap.Int("status_code", result.StatusCode),
			zap.Stringer("outcome", result.Outcome),
		)
		return
	}
	log.Info("Buckaroo status update processed",
		zap.Int("status_code", result.StatusCode),
		zap.Stringer("outcome", result.Outcome),
		zap.NamedError("status", ErrProviderStatusFailure),
	)
}

func (s *service) logIncomingPaymentAction(ctx context.Context, log *zap.Logger, invoiceNumber string, statusCode int, requestBody *string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogIncomingPaymentAction(ctx, payment.ProviderBuckaroo, invoiceNumber, statusCode, requestBody); err != nil {
		log.Error("Failed to log incoming payment action", zap.Error(err))
	}
}
