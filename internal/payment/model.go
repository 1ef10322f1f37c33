package payment

import (
	"time"
)

type Provider string

const (
	ProviderBuckaroo Provider = "BUCKAROO"
)

// Outcome is the normalized state of a payment after a status update.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomePending
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	default:
		return "failure"
	}
}

// StatusUpdateResult is returned for every processed status update and is
// also the payload recorded in the payment log.
type StatusUpdateResult struct {
	Status     string  `json:"status"`
	StatusCode int     `json:"status_code"`
	Successful bool    `json:"successful"`
	Outcome    Outcome `json:"outcome"`
	// Verified is set once the provider's signature checked out and the
	// status came from the provider rather than from request handling.
	Verified bool `json:"verified"`
}

// PaymentLog is one incoming payment action as stored in payment_logs.
type PaymentLog struct {
	ID            int64
	Provider      Provider
	InvoiceNumber string
	StatusCode    int
	RequestBody   *string
	CreatedAt     time.Time
}
