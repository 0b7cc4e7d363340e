// Package fieldcrypt encrypts personal data columns at rest.
//
// Ciphertexts are hex(iv) || hex(AES-256-CBC(PKCS#7(plaintext))), with a
// random 16 byte IV per value.
package fieldcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidKey        = errors.New("fieldcrypt: key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("fieldcrypt: invalid ciphertext")
)

// Decrypter turns a stored ciphertext back into plain text.
type Decrypter interface {
	Decrypt(cipherText string) (string, error)
}

// Cipher implements Decrypter and the matching Encrypt.
type Cipher struct {
	block cipher.Block
}

func New(secret string) (*Cipher, error) {
	if len(secret) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &Cipher{block: block}, nil
}

func (c *Cipher) Encrypt(plainText string) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pad([]byte(plainText))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + hex.EncodeToString(out), nil
}

func (c *Cipher) Decrypt(cipherText string) (string, error) {
	if len(cipherText) < 2*aes.BlockSize*2 {
		return "", ErrInvalidCiphertext
	}
	iv, err := hex.DecodeString(cipherText[:2*aes.BlockSize])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	data, err := hex.DecodeString(cipherText[2*aes.BlockSize:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, data)

	plain, err := unpad(out)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrInvalidCiphertext
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, ErrInvalidCiphertext
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrInvalidCiphertext
		}
	}
	return b[:len(b)-n], nil
}
