/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuer

import (
	"crypto/hmac"
	"crypto/rand"

	"github.com/anchordid/anchor-core-go/pkg/docutil"
)

// nonceProtocolID is the domain separation tag under which nonce digests are
// keyed. A nonce is base64(random || hmac) where the digest is bound to the
// counterparty identity, so only the keying material holder can mint one.
const nonceProtocolID = "server nonce"

const nonceRandomSize = 16

// CreateNonce mints a fresh nonce bound to the given identity. Clients obtain
// their client nonce through this before requesting issuance; the server
// nonce of each exchange is minted the same way.
func (i *Issuer) CreateNonce(identityKey string) (string, error) {
	random := make([]byte, nonceRandomSize)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}

	digest, err := i.keys.CreateHMAC(nonceProtocolID, docutil.EncodeToString(random), identityKey, random)
	if err != nil {
		return "", err
	}

	return docutil.EncodeToString(append(random, digest...)), nil
}

// verifyNonce checks that the nonce was legitimately minted for the given
// identity.
func (i *Issuer) verifyNonce(nonce, identityKey string) error {
	decoded, err := docutil.DecodeString(nonce)
	if err != nil {
		return NewNonceError("nonce is not base64")
	}

	if len(decoded) <= nonceRandomSize {
		return NewNonceError("nonce is too short")
	}

	random, digest := decoded[:nonceRandomSize], decoded[nonceRandomSize:]

	expected, err := i.keys.CreateHMAC(nonceProtocolID, docutil.EncodeToString(random), identityKey, random)
	if err != nil {
		return NewNonceError(err.Error())
	}

	if !hmac.Equal(digest, expected) {
		return NewNonceError("nonce was not issued for this identity")
	}

	return nil
}
