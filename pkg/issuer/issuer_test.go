/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuer

import (
	"crypto/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/anchordid/anchor-core-go/pkg/docutil"
	"github.com/anchordid/anchor-core-go/pkg/mocks"
	"github.com/anchordid/anchor-core-go/pkg/util/keymanager"
)

const (
	testCertifierKey = "03f0a1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1"
	testIdentityKey  = "02b463e1461e60b97fd07b1e2ca9ffbcbc1bc7f0ead3ee19e706ab93dcc3d0f53d"
)

func testIssuer(t *testing.T) (*Issuer, *keymanager.KeyManager) {
	t.Helper()

	km, err := keymanager.New([]byte("issuer master secret"))
	require.NoError(t, err)

	return New(testCertifierKey, km, mocks.NewMockSigner(nil)), km
}

// testRequest builds a request whose fields and keyring entries were
// encrypted the way a requesting wallet would: each field value under its own
// field key, each field key under the keyring protocol addressed to the
// requester identity.
func testRequest(t *testing.T, iss *Issuer, km *keymanager.KeyManager) *Request {
	t.Helper()

	clientNonce, err := iss.CreateNonce(testIdentityKey)
	require.NoError(t, err)

	fields := make(map[string]string)
	keyring := make(map[string]string)

	for name, value := range map[string]string{"name": "Alice", "email": "alice@example.com"} {
		fieldKey := make([]byte, 32)
		_, err = rand.Read(fieldKey)
		require.NoError(t, err)

		encryptedValue, err := keymanager.EncryptWithKey(fieldKey, []byte(value))
		require.NoError(t, err)

		encryptedKey, err := km.Encrypt(keyringProtocolID, name, testIdentityKey, fieldKey)
		require.NoError(t, err)

		fields[name] = docutil.EncodeToString(encryptedValue)
		keyring[name] = docutil.EncodeToString(encryptedKey)
	}

	return &Request{
		ClientNonce:   clientNonce,
		Type:          "email-certificate",
		Fields:        fields,
		MasterKeyring: keyring,
	}
}

func TestIssuer_Issue(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)

		response, err := iss.Issue(testIdentityKey, req)
		require.NoError(t, err)
		require.NotNil(t, response)
		require.NotEmpty(t, response.ServerNonce)

		cert := response.Certificate
		require.Equal(t, "email-certificate", cert.Type)
		require.NotEmpty(t, cert.SerialNumber)
		require.Equal(t, testIdentityKey, cert.Subject)
		require.Equal(t, testCertifierKey, cert.Certifier)
		require.Equal(t, RevocationSentinel, cert.RevocationOutpoint)
		require.NotEmpty(t, cert.Signature)

		// fields hold exactly the submitted (still encrypted) values
		require.Equal(t, req.Fields, cert.Fields)
	})

	t.Run("success - same client nonce, fresh server nonce, different serial", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)

		first, err := iss.Issue(testIdentityKey, req)
		require.NoError(t, err)

		second, err := iss.Issue(testIdentityKey, req)
		require.NoError(t, err)

		require.NotEqual(t, first.ServerNonce, second.ServerNonce)
		require.NotEqual(t, first.Certificate.SerialNumber, second.Certificate.SerialNumber)
	})

	t.Run("error - validation names the first missing field", func(t *testing.T) {
		iss, km := testIssuer(t)

		complete := testRequest(t, iss, km)

		tests := []struct {
			name    string
			mutate  func(*Request)
			missing string
		}{
			{"no client nonce", func(r *Request) { r.ClientNonce = "" }, "clientNonce"},
			{"no type", func(r *Request) { r.Type = "" }, "type"},
			{"no fields", func(r *Request) { r.Fields = nil }, "fields"},
			{"no keyring", func(r *Request) { r.MasterKeyring = nil }, "masterKeyring"},
		}

		for _, tc := range tests {
			req := *complete
			tc.mutate(&req)

			response, err := iss.Issue(testIdentityKey, &req)
			require.Error(t, err, tc.name)
			require.Nil(t, response)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.missing, validationErr.Field())
			require.Contains(t, err.Error(), tc.missing)
		}
	})

	t.Run("error - nil request", func(t *testing.T) {
		iss, _ := testIssuer(t)

		response, err := iss.Issue(testIdentityKey, nil)
		require.Error(t, err)
		require.Nil(t, response)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("error - nonce minted for another identity", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)

		response, err := iss.Issue(testCertifierKey, req)
		require.Error(t, err)
		require.Nil(t, response)

		var nonceErr *NonceError
		require.ErrorAs(t, err, &nonceErr)
	})

	t.Run("error - forged nonce", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)
		req.ClientNonce = docutil.EncodeToString(make([]byte, 48))

		response, err := iss.Issue(testIdentityKey, req)
		require.Error(t, err)
		require.Nil(t, response)

		var nonceErr *NonceError
		require.ErrorAs(t, err, &nonceErr)
	})

	t.Run("error - missing keyring entry", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)
		delete(req.MasterKeyring, "email")
		req.MasterKeyring["other"] = req.MasterKeyring["name"]

		response, err := iss.Issue(testIdentityKey, req)
		require.Error(t, err)
		require.Nil(t, response)

		var decryptionErr *DecryptionError
		require.ErrorAs(t, err, &decryptionErr)
		require.Contains(t, err.Error(), "email")
	})

	t.Run("error - keyring entry for wrong identity", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)

		// re-encrypt the name key addressed to a different counterparty
		fieldKey := make([]byte, 32)
		encryptedKey, err := km.Encrypt(keyringProtocolID, "name", testCertifierKey, fieldKey)
		require.NoError(t, err)

		req.MasterKeyring["name"] = docutil.EncodeToString(encryptedKey)

		response, err := iss.Issue(testIdentityKey, req)
		require.Error(t, err)
		require.Nil(t, response)

		var decryptionErr *DecryptionError
		require.ErrorAs(t, err, &decryptionErr)
	})

	t.Run("error - field value does not match revealed key", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)
		req.Fields["name"] = docutil.EncodeToString([]byte("garbage ciphertext"))

		response, err := iss.Issue(testIdentityKey, req)
		require.Error(t, err)
		require.Nil(t, response)

		var decryptionErr *DecryptionError
		require.ErrorAs(t, err, &decryptionErr)
	})

	t.Run("error - missing identity key", func(t *testing.T) {
		iss, km := testIssuer(t)
		req := testRequest(t, iss, km)

		response, err := iss.Issue("", req)
		require.Error(t, err)
		require.Nil(t, response)
	})

	t.Run("error - signer failure", func(t *testing.T) {
		km, err := keymanager.New([]byte("issuer master secret"))
		require.NoError(t, err)

		iss := New(testCertifierKey, km, mocks.NewMockSigner(errors.New("hsm offline")))
		req := testRequest(t, iss, km)

		response, err := iss.Issue(testIdentityKey, req)
		require.Error(t, err)
		require.Nil(t, response)
		require.Contains(t, err.Error(), "sign certificate")
	})
}

func TestDeriveSerialNumber(t *testing.T) {
	iss, _ := testIssuer(t)

	clientNonce, err := iss.CreateNonce(testIdentityKey)
	require.NoError(t, err)

	serverNonce, err := iss.CreateNonce(testIdentityKey)
	require.NoError(t, err)

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		first, err := iss.deriveSerialNumber(clientNonce, serverNonce, testIdentityKey)
		require.NoError(t, err)

		second, err := iss.deriveSerialNumber(clientNonce, serverNonce, testIdentityKey)
		require.NoError(t, err)

		require.Equal(t, first, second)
	})

	t.Run("bound to the server nonce", func(t *testing.T) {
		otherNonce, err := iss.CreateNonce(testIdentityKey)
		require.NoError(t, err)

		first, err := iss.deriveSerialNumber(clientNonce, serverNonce, testIdentityKey)
		require.NoError(t, err)

		second, err := iss.deriveSerialNumber(clientNonce, otherNonce, testIdentityKey)
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})

	t.Run("bound to the identity", func(t *testing.T) {
		first, err := iss.deriveSerialNumber(clientNonce, serverNonce, testIdentityKey)
		require.NoError(t, err)

		second, err := iss.deriveSerialNumber(clientNonce, serverNonce, testCertifierKey)
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})
}

func TestCreateNonce_Verify(t *testing.T) {
	iss, _ := testIssuer(t)

	nonce, err := iss.CreateNonce(testIdentityKey)
	require.NoError(t, err)

	require.NoError(t, iss.verifyNonce(nonce, testIdentityKey))
	require.Error(t, iss.verifyNonce(nonce, testCertifierKey))
	require.Error(t, iss.verifyNonce("@@not-base64@@", testIdentityKey))
	require.Error(t, iss.verifyNonce(docutil.EncodeToString([]byte("short")), testIdentityKey))
}
