/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuer runs the certificate issuance protocol: a mutual-nonce
// exchange deriving an unpredictable serial number, decryption and validation
// of the attested fields, and signing of the certificate.
//
// The pipeline is gated; the first failing gate short-circuits the request.
// The issuer is stateless across requests beyond its long-lived keying
// material.
package issuer

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/anchordid/anchor-core-go/pkg/api/wallet"
	"github.com/anchordid/anchor-core-go/pkg/docutil"
	"github.com/anchordid/anchor-core-go/pkg/util/keymanager"
)

var logger = log.New("anchor-issuer")

// issuanceProtocolID is the domain separation tag under which certificate
// serial numbers are keyed.
const issuanceProtocolID = "certificate issuance"

// keyringProtocolID is the domain separation tag under which master keyring
// entries are encrypted to the requester identity.
const keyringProtocolID = "certificate field encryption"

// RevocationSentinel is the fixed revocation outpoint written into issued
// certificates absent a revocation scheme.
const RevocationSentinel = "0000000000000000000000000000000000000000000000000000000000000000.0"

// Request is the issuance request. The requester identity key arrives
// separately, extracted by the authentication layer.
type Request struct {
	ClientNonce   string            `json:"clientNonce"`
	Type          string            `json:"type"`
	Fields        map[string]string `json:"fields"`
	MasterKeyring map[string]string `json:"masterKeyring"`
}

// Certificate is a signed certificate. Fields holds exactly the values as
// submitted (still encrypted), never the decrypted plaintext. The signature
// covers the canonical JSON of the structure without the signature itself.
type Certificate struct {
	Type               string            `json:"type"`
	SerialNumber       string            `json:"serialNumber"`
	Subject            string            `json:"subject"`
	Certifier          string            `json:"certifier"`
	RevocationOutpoint string            `json:"revocationOutpoint"`
	Fields             map[string]string `json:"fields"`
	Signature          string            `json:"signature,omitempty"`
}

// Response is the success response of one issuance exchange.
type Response struct {
	Certificate *Certificate `json:"certificate"`
	ServerNonce string       `json:"serverNonce"`
}

// Signer signs the assembled certificate.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
}

// Issuer issues certificates.
type Issuer struct {
	certifierKey string
	keys         wallet.KeyOperations
	signer       Signer
}

// New returns an issuer. certifierKey is the server identity written into
// issued certificates; keys is the keyed-crypto collaborator holding the
// long-lived material; signer signs the assembled certificate.
func New(certifierKey string, keys wallet.KeyOperations, signer Signer) *Issuer {
	return &Issuer{certifierKey: certifierKey, keys: keys, signer: signer}
}

// Issue runs the issuance pipeline for a single authenticated requester.
func (i *Issuer) Issue(identityKey string, req *Request) (*Response, error) {
	if req == nil {
		req = &Request{}
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if identityKey == "" {
		return nil, errors.New("identity key is required")
	}

	if err := i.verifyNonce(req.ClientNonce, identityKey); err != nil {
		return nil, err
	}

	serverNonce, err := i.CreateNonce(identityKey)
	if err != nil {
		return nil, errors.Wrap(err, "create server nonce")
	}

	serialNumber, err := i.deriveSerialNumber(req.ClientNonce, serverNonce, identityKey)
	if err != nil {
		return nil, err
	}

	if err := i.decryptFields(req, identityKey); err != nil {
		return nil, err
	}

	certificate := &Certificate{
		Type:               req.Type,
		SerialNumber:       serialNumber,
		Subject:            identityKey,
		Certifier:          i.certifierKey,
		RevocationOutpoint: RevocationSentinel,
		Fields:             req.Fields,
	}

	payload, err := docutil.MarshalCanonical(certificate)
	if err != nil {
		return nil, errors.Wrap(err, "marshal certificate")
	}

	signature, err := i.signer.Sign(payload)
	if err != nil {
		return nil, errors.Wrap(err, "sign certificate")
	}

	certificate.Signature = hex.EncodeToString(signature)

	logger.Debugf("Issued certificate of type [%s] with serial number [%s]", req.Type, serialNumber)

	return &Response{Certificate: certificate, ServerNonce: serverNonce}, nil
}

// validate checks the request fields in a fixed order so the error always
// names the first missing one.
func validate(req *Request) error {
	if req.ClientNonce == "" {
		return NewValidationError("clientNonce")
	}

	if req.Type == "" {
		return NewValidationError("type")
	}

	if len(req.Fields) == 0 {
		return NewValidationError("fields")
	}

	if len(req.MasterKeyring) == 0 {
		return NewValidationError("masterKeyring")
	}

	return nil
}

// deriveSerialNumber binds the serial number to both nonces and the requester
// identity under the issuance protocol tag. It is reproducible only by
// holders of the keying material, which prevents prediction or replay across
// sessions.
func (i *Issuer) deriveSerialNumber(clientNonce, serverNonce, identityKey string) (string, error) {
	decoded, err := docutil.DecodeString(clientNonce + serverNonce)
	if err != nil {
		return "", errors.Wrap(err, "decode nonces")
	}

	digest, err := i.keys.CreateHMAC(issuanceProtocolID, serverNonce+clientNonce, identityKey, decoded)
	if err != nil {
		return "", errors.Wrap(err, "derive serial number")
	}

	return docutil.EncodeToString(digest), nil
}

// decryptFields decrypts every submitted field with its matching keyring
// entry. The decrypted plaintext is used only for validation and discarded;
// it is never stored or returned.
func (i *Issuer) decryptFields(req *Request, identityKey string) error {
	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		entry, ok := req.MasterKeyring[name]
		if !ok {
			return NewDecryptionError("no keyring entry for field %q", name)
		}

		entryBytes, err := docutil.DecodeString(entry)
		if err != nil {
			return NewDecryptionError("keyring entry for field %q is not base64", name)
		}

		fieldKey, err := i.keys.Decrypt(keyringProtocolID, name, identityKey, entryBytes)
		if err != nil {
			return NewDecryptionError("reveal key for field %q: %s", name, err.Error())
		}

		valueBytes, err := docutil.DecodeString(req.Fields[name])
		if err != nil {
			return NewDecryptionError("field %q is not base64", name)
		}

		plaintext, err := keymanager.DecryptWithKey(fieldKey, valueBytes)
		if err != nil {
			return NewDecryptionError("decrypt field %q: %s", name, err.Error())
		}

		if len(strings.TrimSpace(string(plaintext))) == 0 {
			return NewDecryptionError("field %q is empty", name)
		}
	}

	return nil
}
