/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/anchordid/anchor-core-go/pkg/api/wallet"
)

// MockCreator mocks the transaction collaborator for testing purposes. The
// txid of each created transaction is derived from the request so tests get
// stable, distinct values.
type MockCreator struct {
	sync.RWMutex
	requests []*wallet.TransactionRequest
	Err      error
}

// NewMockCreator creates mock transaction creator.
func NewMockCreator(err error) *MockCreator {
	return &MockCreator{Err: err}
}

// CreateTransaction mocks funding, signing and broadcasting a transaction.
func (m *MockCreator) CreateTransaction(req *wallet.TransactionRequest) (*wallet.TransactionResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.Lock()
	m.requests = append(m.requests, req)
	seq := len(m.requests)
	m.Unlock()

	h := sha256.New()
	h.Write([]byte{byte(seq)})
	for _, out := range req.Outputs {
		h.Write(out.LockingScript)
	}

	txid := hex.EncodeToString(h.Sum(nil))

	return &wallet.TransactionResult{Txid: txid, Tx: []byte("rawtx:" + txid)}, nil
}

// Requests returns the transaction requests received so far.
func (m *MockCreator) Requests() []*wallet.TransactionRequest {
	m.RLock()
	defer m.RUnlock()

	return m.requests
}

// LastRequest returns the most recent transaction request, or nil.
func (m *MockCreator) LastRequest() *wallet.TransactionRequest {
	m.RLock()
	defer m.RUnlock()

	if len(m.requests) == 0 {
		return nil
	}

	return m.requests[len(m.requests)-1]
}
