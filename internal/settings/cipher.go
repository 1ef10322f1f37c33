package settings

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Cipher seals provider keys at rest. Stored values are
// base64(nonce || secretbox). A Cipher without a key passes values through.
type Cipher struct {
	key *[32]byte
}

func NewCipher(hexKey string) (*Cipher, error) {
	if hexKey == "" {
		return &Cipher{}, nil
	}

	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidEncryptionKey
	}

	var key [32]byte
	copy(key[:], raw)
	return &Cipher{key: &key}, nil
}

func (c *Cipher) Enabled() bool {
	return c != nil && c.key != nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if !c.Enabled() {
		return plaintext, nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(value string) (string, error) {
	if !c.Enabled() || value == "" {
		return value, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrInvalidCiphertext
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	opened, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, c.key)
	if !ok {
		return "", ErrInvalidCiphertext
	}
	return string(opened), nil
}
