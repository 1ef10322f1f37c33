package buckaroo

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// PushContentType is the transport Buckaroo uses for push requests of a
// payment method. Values match the stored setting.
type PushContentType int

const (
	PushContentTypeJSON     PushContentType = 1
	PushContentTypeHTTPPost PushContentType = 2
	PushContentTypeHTTPGet  PushContentType = 3
)

func (t PushContentType) String() string {
	switch t {
	case PushContentTypeJSON:
		return "json"
	case PushContentTypeHTTPPost:
		return "http_post"
	case PushContentTypeHTTPGet:
		return "http_get"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// HashMethod is the digest used for form push signatures.
type HashMethod int

const (
	HashMethodSHA1   HashMethod = 1
	HashMethodSHA256 HashMethod = 2
	HashMethodSHA512 HashMethod = 3
)

func (m HashMethod) String() string {
	switch m {
	case HashMethodSHA1:
		return "sha1"
	case HashMethodSHA256:
		return "sha256"
	case HashMethodSHA512:
		return "sha512"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

func (m HashMethod) newHash() (hash.Hash, error) {
	switch m {
	case HashMethodSHA1:
		return sha1.New(), nil
	case HashMethodSHA256:
		return sha256.New(), nil
	case HashMethodSHA512:
		return sha512.New(), nil
	default:
		return nil, &ConfigError{Setting: "hash method", Value: int(m), Err: ErrUnsupportedHashMethod}
	}
}
