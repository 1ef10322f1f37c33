package buckaroo

import (
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const SignatureField = "brq_signature"

var allowedFieldPrefixes = []string{"brq_", "add_", "cust_"}

type Field struct {
	Key   string
	Value string
}

// CanonicalFieldSet holds the signed push fields sorted by key.
type CanonicalFieldSet []Field

// Canonicalize keeps the brq_, add_ and cust_ fields except the signature
// and sorts them by key. Repeated values are joined with a comma.
func Canonicalize(values url.Values) CanonicalFieldSet {
	fields := make(CanonicalFieldSet, 0, len(values))
	for key, vs := range values {
		if key == SignatureField || !hasAllowedPrefix(key) {
			continue
		}
		fields = append(fields, Field{Key: key, Value: strings.Join(vs, ",")})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

func hasAllowedPrefix(key string) bool {
	for _, prefix := range allowedFieldPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Get returns the value of key, or "" when absent.
func (s CanonicalFieldSet) Get(key string) string {
	i := sort.Search(len(s), func(i int) bool { return s[i].Key >= key })
	if i < len(s) && s[i].Key == key {
		return s[i].Value
	}
	return ""
}

// String concatenates key=value pairs without separators.
func (s CanonicalFieldSet) String() string {
	var b strings.Builder
	for _, f := range s {
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	return b.String()
}

// VerificationOutcome is the result of checking a supplied signature.
type VerificationOutcome struct {
	Valid  bool
	Reason string
}

// ComputeFormSignature returns the lowercase hex digest of the canonical
// fields followed by the secret key.
func ComputeFormSignature(fields CanonicalFieldSet, secretKey string, method HashMethod) (string, error) {
	h, err := method.newHash()
	if err != nil {
		return "", err
	}

	input := fields.String()
	if strings.TrimSpace(secretKey) != "" {
		input += secretKey
	}

	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFormSignature recomputes the signature of fields and compares it to
// supplied, ignoring case. An error is returned only for an unsupported hash
// method, which is a *ConfigError.
func VerifyFormSignature(fields CanonicalFieldSet, supplied, secretKey string, method HashMethod) (VerificationOutcome, error) {
	expected, err := ComputeFormSignature(fields, secretKey, method)
	if err != nil {
		return VerificationOutcome{Valid: false, Reason: err.Error()}, err
	}

	if strings.TrimSpace(supplied) == "" {
		return VerificationOutcome{Valid: false, Reason: "signature missing"}, nil
	}

	got := []byte(strings.ToLower(supplied))
	if subtle.ConstantTimeCompare(got, []byte(expected)) != 1 {
		return VerificationOutcome{Valid: false, Reason: "signature mismatch"}, nil
	}
	return VerificationOutcome{Valid: true}, nil
}
