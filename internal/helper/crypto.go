package helper

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	errwrap "github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// Seal encrypts a connection credential with the configured secret key so
// it is never stored in sqlite as plaintext. Output is base64(nonce||box).
func Seal(plaintext, secretKey string) (string, error) {
	funcName := "helper.Seal"

	key := sha256.Sum256([]byte(secretKey))
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errwrap.Wrap(err, funcName)
	}

	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &key)
	return base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal.
func Open(sealed, secretKey string) (string, error) {
	funcName := "helper.Open"

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errwrap.Wrap(err, funcName)
	}
	if len(raw) < 24 {
		return "", errwrap.New(funcName + ": sealed value too short")
	}

	key := sha256.Sum256([]byte(secretKey))
	var nonce [24]byte
	copy(nonce[:], raw[:24])

	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &key)
	if !ok {
		return "", errwrap.New(funcName + ": decryption failed")
	}
	return string(plain), nil
}
