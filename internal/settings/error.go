package settings

import "errors"

var (
	ErrInvalidEncryptionKey = errors.New("settings encryption key must be 32 hex encoded bytes")
	ErrInvalidCiphertext    = errors.New("invalid encrypted setting value")
)
