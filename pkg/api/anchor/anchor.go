/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anchor defines the lookup-index record and store interface. The
// store engine itself is an external collaborator.
package anchor

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when no record exists for the serial number.
var ErrNotFound = errors.New("anchor record not found")

// Record maps a content-derived serial number to a ledger outpoint and a
// cached document copy. Records are created at DID creation and never deleted
// by this core.
type Record struct {
	SerialNumber string                 `json:"serialNumber"`
	Txid         string                 `json:"txid"`
	OutputIndex  uint32                 `json:"vout"`
	Topic        string                 `json:"topic"`
	Document     map[string]interface{} `json:"didDocument,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Store persists anchor records keyed by serial number.
type Store interface {
	// Put stores the record.
	Put(record *Record) error

	// Get returns the record for the given serial number, or ErrNotFound.
	Get(serialNumber string) (*Record, error)
}
