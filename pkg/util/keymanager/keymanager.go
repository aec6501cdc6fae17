/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keymanager provides the default implementation of the wallet
// keyed-crypto collaborator. Keys are derived from a long-lived master secret
// and addressed by protocol ID, key ID and counterparty identity, so derived
// material is reproducible only by holders of the master secret.
package keymanager

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"github.com/pkg/errors"
)

// KeyManager derives per-protocol keys from a master secret.
type KeyManager struct {
	master []byte
}

// New returns a key manager for the given master secret.
func New(master []byte) (*KeyManager, error) {
	if len(master) == 0 {
		return nil, errors.New("master secret is required")
	}

	m := make([]byte, len(master))
	copy(m, master)

	return &KeyManager{master: m}, nil
}

// CreateHMAC computes a keyed digest over data under the derived key.
func (k *KeyManager) CreateHMAC(protocolID, keyID, counterparty string, data []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, k.deriveKey(protocolID, keyID, counterparty))
	mac.Write(data)

	return mac.Sum(nil), nil
}

// Encrypt encrypts plaintext under the derived key. The returned ciphertext
// carries the nonce as its prefix.
func (k *KeyManager) Encrypt(protocolID, keyID, counterparty string, plaintext []byte) ([]byte, error) {
	return EncryptWithKey(k.deriveKey(protocolID, keyID, counterparty), plaintext)
}

// Decrypt decrypts ciphertext produced by Encrypt under the derived key.
func (k *KeyManager) Decrypt(protocolID, keyID, counterparty string, ciphertext []byte) ([]byte, error) {
	return DecryptWithKey(k.deriveKey(protocolID, keyID, counterparty), ciphertext)
}

// deriveKey binds derived material to the protocol domain tag, key ID and
// counterparty identity.
func (k *KeyManager) deriveKey(protocolID, keyID, counterparty string) []byte {
	mac := hmac.New(sha256.New, k.master)
	for _, s := range []string{protocolID, keyID, counterparty} {
		mac.Write([]byte(s))
		mac.Write([]byte{0})
	}

	return mac.Sum(nil)
}

// EncryptWithKey encrypts plaintext with AES-GCM under the given key.
func EncryptWithKey(key, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptWithKey decrypts ciphertext produced by EncryptWithKey.
func DecryptWithKey(key, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ct := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt")
	}

	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "create cipher")
	}

	return cipher.NewGCM(block)
}
