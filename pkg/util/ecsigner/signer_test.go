/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ecsigner

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	msg := []byte("test message")

	t.Run("success - P-256", func(t *testing.T) {
		privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		signature, err := New(privKey).Sign(msg)
		require.NoError(t, err)
		require.Len(t, signature, 64)

		hashed := sha256.Sum256(msg)
		r := new(big.Int).SetBytes(signature[:32])
		s := new(big.Int).SetBytes(signature[32:])
		require.True(t, ecdsa.Verify(&privKey.PublicKey, hashed[:], r, s))
	})

	t.Run("success - secp256k1", func(t *testing.T) {
		privKey, err := btcec.NewPrivateKey(btcec.S256())
		require.NoError(t, err)

		signature, err := New(privKey.ToECDSA()).Sign(msg)
		require.NoError(t, err)
		require.Len(t, signature, 64)
	})

	t.Run("error - private key not provided", func(t *testing.T) {
		signature, err := New(nil).Sign(msg)
		require.Error(t, err)
		require.Nil(t, signature)
		require.Contains(t, err.Error(), "private key not provided")
	})
}

func TestPublicKeyHex(t *testing.T) {
	privKey, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)

	hexKey := New(privKey.ToECDSA()).PublicKeyHex()
	require.Len(t, hexKey, 66)

	require.Empty(t, New(nil).PublicKeyHex())
}
