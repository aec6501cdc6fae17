/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet defines the transaction collaborator interfaces. Funding,
// signing and broadcast internals live behind these interfaces; the protocol
// core only describes the transaction it needs.
package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Outpoint references a specific output of a specific ledger transaction.
type Outpoint struct {
	Txid        string `json:"txid"`
	OutputIndex uint32 `json:"outputIndex"`
}

// String returns the canonical "<txid>.<outputIndex>" form.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s.%d", o.Txid, o.OutputIndex)
}

// ParseOutpoint parses the canonical "<txid>.<outputIndex>" form.
func ParseOutpoint(value string) (*Outpoint, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return nil, errors.Errorf("invalid outpoint [%s]", value)
	}

	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid outpoint [%s]", value)
	}

	return &Outpoint{Txid: parts[0], OutputIndex: uint32(index)}, nil
}

// OutputMetadata makes an output self-describing: everything needed to
// recover the committed data later travels with the transaction request.
type OutputMetadata struct {
	ProtocolID   string                 `json:"protocolID"`
	KeyID        string                 `json:"keyID"`
	Counterparty string                 `json:"counterparty"`
	Fields       [][]byte               `json:"fields"`
	Document     map[string]interface{} `json:"document,omitempty"`
}

// Output describes a transaction output to be created.
type Output struct {
	Satoshis      uint64
	LockingScript []byte
	Description   string
	Metadata      *OutputMetadata
}

// Input describes a transaction input spending an existing outpoint.
type Input struct {
	Outpoint    Outpoint
	Description string
}

// TransactionRequest describes the transaction the collaborator should fund,
// sign and broadcast.
type TransactionRequest struct {
	Description string
	Inputs      []Input
	Outputs     []Output
}

// TransactionResult is returned by the collaborator once the transaction has
// been created.
type TransactionResult struct {
	Txid string `json:"txid"`
	Tx   []byte `json:"tx,omitempty"`
}

// Creator funds, signs and broadcasts ledger transactions.
type Creator interface {
	CreateTransaction(req *TransactionRequest) (*TransactionResult, error)
}

// KeyOperations exposes the keyed primitives of the collaborator wallet. Key
// material is addressed by protocol ID (domain separation tag), key ID and
// counterparty identity; it never leaves the collaborator.
type KeyOperations interface {
	// CreateHMAC computes a keyed digest over data.
	CreateHMAC(protocolID, keyID, counterparty string, data []byte) ([]byte, error)

	// Decrypt decrypts ciphertext addressed to the given counterparty.
	Decrypt(protocolID, keyID, counterparty string, ciphertext []byte) ([]byte, error)
}

// TransactionError indicates that the transaction collaborator could not
// fund, sign or broadcast the requested transaction.
type TransactionError struct {
	cause error
}

// NewTransactionError wraps a collaborator failure.
func NewTransactionError(cause error) *TransactionError {
	return &TransactionError{cause: cause}
}

// Error returns the error string.
func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction collaborator: %s", e.cause.Error())
}

// Unwrap returns the underlying collaborator error.
func (e *TransactionError) Unwrap() error {
	return e.cause
}
