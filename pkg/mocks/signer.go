/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import "crypto/sha256"

// MockSigner mocks the certificate signing collaborator for testing purposes.
type MockSigner struct {
	Err error
}

// NewMockSigner creates mock signer.
func NewMockSigner(err error) *MockSigner {
	return &MockSigner{Err: err}
}

// Sign returns a deterministic pseudo-signature over msg.
func (m *MockSigner) Sign(msg []byte) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	digest := sha256.Sum256(msg)

	return digest[:], nil
}
