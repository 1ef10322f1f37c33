package buckaroo

import (
	"errors"
	"fmt"
)

var (
	ErrNoHTTPContext                 = errors.New("no http context available")
	ErrNoInvoiceNumber               = errors.New("no invoice number in request")
	ErrUnsupportedPushContentType    = errors.New("unsupported push content type")
	ErrUnsupportedHashMethod         = errors.New("unsupported hash method")
	ErrSignatureAuthenticationFailed = errors.New("signature authentication failed")
	ErrProviderStatusFailure         = errors.New("provider status indicates failure")
	ErrUnexpectedInternalFault       = errors.New("unexpected internal fault")
	ErrMalformedNotification         = errors.New("malformed notification")
)

// ConfigError reports a deployment misconfiguration of a payment method,
// as opposed to a problem with an individual push request.
type ConfigError struct {
	Setting string
	Value   int
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("buckaroo %s %d: %v", e.Setting, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
