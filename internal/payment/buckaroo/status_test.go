package buckaroo

import (
	"testing"

	"psp-webhook/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name       string
		transport  Transport
		code       int
		successful bool
		outcome    payment.Outcome
	}{
		{"json success", TransportJSON, 190, true, payment.OutcomeSuccess},
		{"json pending input", TransportJSON, 790, true, payment.OutcomePending},
		{"json pending processing", TransportJSON, 791, true, payment.OutcomePending},
		{"json awaiting consumer", TransportJSON, 792, false, payment.OutcomePending},
		{"json failed", TransportJSON, 490, false, payment.OutcomeFailure},
		{"form success", TransportFormPost, 190, true, payment.OutcomeSuccess},
		{"form pending input", TransportFormPost, 790, true, payment.OutcomePending},
		{"form pending processing", TransportFormPost, 791, false, payment.OutcomePending},
		{"form cancelled", TransportFormPost, 890, false, payment.OutcomeFailure},
		{"unknown code", TransportFormPost, 12345, false, payment.OutcomeFailure},
		{"negative code", TransportJSON, -1, false, payment.OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapStatus(tt.transport, tt.code, "provider says")
			assert.Equal(t, tt.successful, result.Successful)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.code, result.StatusCode)
			assert.Equal(t, "provider says", result.Status)
			assert.True(t, result.Verified)
		})
	}
}

func TestFailureResult(t *testing.T) {
	result := failureResult(StatusMessageSignatureIncorrect, 190)
	assert.Equal(t, payment.StatusUpdateResult{
		Status:     StatusMessageSignatureIncorrect,
		StatusCode: 190,
		Outcome:    payment.OutcomeFailure,
	}, result)
	assert.False(t, result.Verified)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "json", PushContentTypeJSON.String())
	assert.Equal(t, "http_post", PushContentTypeHTTPPost.String())
	assert.Equal(t, "http_get", PushContentTypeHTTPGet.String())
	assert.Equal(t, "unknown(7)", PushContentType(7).String())
	assert.Equal(t, "sha512", HashMethodSHA512.String())
	assert.Equal(t, "unknown(0)", HashMethod(0).String())
	assert.Equal(t, "form_post", TransportFormPost.String())
}
