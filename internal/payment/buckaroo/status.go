package buckaroo

import (
	"slices"

	"psp-webhook/internal/payment"
)

// Buckaroo transaction status codes.
const (
	StatusSuccess             = 190
	StatusFailed              = 490
	StatusValidationFailure   = 491
	StatusTechnicalFailure    = 492
	StatusRejected            = 690
	StatusPendingInput        = 790
	StatusPendingProcessing   = 791
	StatusAwaitingConsumer    = 792
	StatusOnHold              = 793
	StatusCancelledByUser     = 890
	StatusCancelledByMerchant = 891
)

// Status messages produced by the service itself.
const (
	StatusMessageSignatureIncorrect = "Signature was incorrect."
	StatusMessageNoRequest          = "Request not available; unable to process status update."
	StatusMessageNoInvoiceNumber    = "No invoice number in request found; unable to process status update."
	StatusMessageInternalFault      = "Error processing status update."
	StatusMessageMisconfigured      = "Payment method is misconfigured; unable to process status update."
)

// The JSON push and the form push use different success allow-lists.
var (
	jsonSuccessCodes = []int{StatusSuccess, StatusPendingInput, StatusPendingProcessing}
	formSuccessCodes = []int{StatusSuccess, StatusPendingInput}
)

// OutcomeOf classifies a provider status code.
func OutcomeOf(code int) payment.Outcome {
	switch code {
	case StatusSuccess:
		return payment.OutcomeSuccess
	case StatusPendingInput, StatusPendingProcessing, StatusAwaitingConsumer, StatusOnHold:
		return payment.OutcomePending
	default:
		return payment.OutcomeFailure
	}
}

// MapStatus turns a provider status into a StatusUpdateResult. The
// description is kept verbatim as the status message.
func MapStatus(transport Transport, code int, description string) payment.StatusUpdateResult {
	allowed := formSuccessCodes
	if transport == TransportJSON {
		allowed = jsonSuccessCodes
	}

	return payment.StatusUpdateResult{
		Status:     description,
		StatusCode: code,
		Successful: slices.Contains(allowed, code),
		Outcome:    OutcomeOf(code),
		Verified:   true,
	}
}

func failureResult(status string, code int) payment.StatusUpdateResult {
	return payment.StatusUpdateResult{
		Status:     status,
		StatusCode: code,
		Successful: false,
		Outcome:    payment.OutcomeFailure,
	}
}
