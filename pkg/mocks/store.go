/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"sync"

	"github.com/anchordid/anchor-core-go/pkg/api/anchor"
)

// MockAnchorStore mocks the lookup-index store for testing purposes.
type MockAnchorStore struct {
	sync.RWMutex
	records map[string]*anchor.Record
	Err     error
}

// NewMockAnchorStore creates mock anchor store.
func NewMockAnchorStore(err error) *MockAnchorStore {
	return &MockAnchorStore{records: make(map[string]*anchor.Record), Err: err}
}

// Put mocks storing an anchor record.
func (m *MockAnchorStore) Put(record *anchor.Record) error {
	if m.Err != nil {
		return m.Err
	}

	m.Lock()
	defer m.Unlock()

	m.records[record.SerialNumber] = record

	return nil
}

// Get mocks retrieving an anchor record.
func (m *MockAnchorStore) Get(serialNumber string) (*anchor.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.RLock()
	defer m.RUnlock()

	if record, ok := m.records[serialNumber]; ok {
		return record, nil
	}

	return nil, anchor.ErrNotFound
}
