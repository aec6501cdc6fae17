/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"sync"

	"github.com/anchordid/anchor-core-go/pkg/api/wallet"
)

// MockLookupProvider mocks the overlay lookup provider for testing purposes.
type MockLookupProvider struct {
	Fields [][]byte
	Err    error

	mutex   sync.RWMutex
	queries []string
}

// NewMockLookupProvider creates mock lookup provider returning the given fields.
func NewMockLookupProvider(fields [][]byte, err error) *MockLookupProvider {
	return &MockLookupProvider{Fields: fields, Err: err}
}

// Lookup mocks an overlay query.
func (m *MockLookupProvider) Lookup(serialNumber string, outpoint wallet.Outpoint) ([][]byte, error) {
	m.mutex.Lock()
	m.queries = append(m.queries, serialNumber)
	m.mutex.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	return m.Fields, nil
}

// Queries returns the serial numbers queried so far.
func (m *MockLookupProvider) Queries() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.queries
}

// MockNotifier mocks the overlay notifier for testing purposes.
type MockNotifier struct {
	Err error

	mutex  sync.RWMutex
	topics []string
}

// NewMockNotifier creates mock notifier.
func NewMockNotifier(err error) *MockNotifier {
	return &MockNotifier{Err: err}
}

// Notify mocks a topic broadcast.
func (m *MockNotifier) Notify(topic string, txBytes []byte, serialNumber, txid string, outputIndex uint32) error {
	if m.Err != nil {
		return m.Err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.topics = append(m.topics, topic)

	return nil
}

// Topics returns the topics notified so far.
func (m *MockNotifier) Topics() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.topics
}
