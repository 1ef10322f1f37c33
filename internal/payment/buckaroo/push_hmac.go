package buckaroo

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const authorizationScheme = "hmac "

// HMACPushAuthenticator implements PushAuthenticator with Buckaroo's
// published "hmac websiteKey:signature:nonce:timestamp" authorization scheme.
type HMACPushAuthenticator struct{}

func NewHMACPushAuthenticator() HMACPushAuthenticator {
	return HMACPushAuthenticator{}
}

// AuthenticateAndParse builds the authorization header from the body it is
// about to check, so it does not authenticate the sender: any well-formed
// body passes once both keys are configured. Use a PushAuthenticator that
// checks the header the provider actually sent when sender authentication
// is required.
func (a HMACPushAuthenticator) AuthenticateAndParse(body []byte, method, timestamp, nonce, webhookURL string, keys Keys) (*Push, error) {
	if keys.WebsiteKey == "" || keys.SecretKey == "" {
		return nil, fmt.Errorf("%w: website key or secret key missing", ErrSignatureAuthenticationFailed)
	}

	signature := CalculateSignature(body, method, timestamp, nonce, webhookURL, keys)
	header := authorizationScheme + strings.Join([]string{keys.WebsiteKey, signature, nonce, timestamp}, ":")

	return a.deserialize(body, method, webhookURL, header, keys)
}

func (a HMACPushAuthenticator) deserialize(body []byte, method, webhookURL, header string, keys Keys) (*Push, error) {
	if !strings.HasPrefix(header, authorizationScheme) {
		return nil, fmt.Errorf("%w: unexpected authorization scheme", ErrSignatureAuthenticationFailed)
	}

	parts := strings.Split(strings.TrimPrefix(header, authorizationScheme), ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrSignatureAuthenticationFailed)
	}
	websiteKey, supplied, nonce, timestamp := parts[0], parts[1], parts[2], parts[3]

	if websiteKey != keys.WebsiteKey {
		return nil, fmt.Errorf("%w: website key mismatch", ErrSignatureAuthenticationFailed)
	}

	expected := CalculateSignature(body, method, timestamp, nonce, webhookURL, keys)
	if !hmac.Equal([]byte(expected), []byte(supplied)) {
		return nil, fmt.Errorf("%w: signature mismatch", ErrSignatureAuthenticationFailed)
	}

	var push Push
	if err := json.Unmarshal(body, &push); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	return &push, nil
}

// CalculateSignature computes the base64 HMAC-SHA256 request signature.
func CalculateSignature(body []byte, method, timestamp, nonce, webhookURL string, keys Keys) string {
	var content string
	if len(body) > 0 {
		sum := md5.Sum(body)
		content = base64.StdEncoding.EncodeToString(sum[:])
	}

	data := keys.WebsiteKey + strings.ToUpper(method) + encodeURI(webhookURL) + timestamp + nonce + content

	mac := hmac.New(sha256.New, []byte(keys.SecretKey))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeURI(raw string) string {
	if raw == "" {
		return ""
	}
	trimmed := raw
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}
	return strings.ToLower(url.QueryEscape(trimmed))
}
