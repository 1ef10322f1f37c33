package buckaroo

// Keys identify a merchant website towards Buckaroo.
type Keys struct {
	WebsiteKey string
	SecretKey  string
}

// Push is an authenticated JSON push notification.
type Push struct {
	Transaction PushTransaction `json:"Transaction"`
}

type PushTransaction struct {
	Key         string      `json:"Key"`
	Invoice     string      `json:"Invoice"`
	ServiceCode string      `json:"ServiceCode"`
	AmountDebit float64     `json:"AmountDebit"`
	Currency    string      `json:"Currency"`
	IsTest      bool        `json:"IsTest"`
	Status      *PushStatus `json:"Status"`
}

type PushStatus struct {
	Code     PushStatusCode  `json:"Code"`
	SubCode  *PushStatusCode `json:"SubCode,omitempty"`
	DateTime string          `json:"DateTime"`
}

type PushStatusCode struct {
	Code        int    `json:"Code"`
	Description string `json:"Description"`
}

// PushAuthenticator authenticates and deserializes a JSON push body. The
// signature algorithm belongs to the provider; implementations return an
// error wrapping ErrSignatureAuthenticationFailed when the push is not
// authentic.
type PushAuthenticator interface {
	AuthenticateAndParse(body []byte, method, timestamp, nonce, webhookURL string, keys Keys) (*Push, error)
}
