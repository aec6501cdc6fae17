/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package token encodes an ordered list of opaque byte fields into a
// ledger-output locking script, optionally self-locked to the encoder's key
// and carrying a detached signature over the data fields. Field order is
// semantically fixed: verifiers decode by position.
package token

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
)

// MaxFieldSize is the maximum size of a single field. Larger fields cannot be
// pushed as a single script element.
const MaxFieldSize = txscript.MaxScriptElementSize

// SignaturePosition determines where the detached signature is placed
// relative to the data fields.
type SignaturePosition int

const (
	// SignatureAfterFields appends the signature after the data fields.
	SignatureAfterFields SignaturePosition = iota

	// SignatureBeforeFields prepends the signature before the data fields.
	SignatureBeforeFields
)

// Options configures one encoding.
type Options struct {
	// ProtocolID is the domain separation tag mixed into the signing payload.
	ProtocolID string

	// KeyID identifies the signing key within the protocol.
	KeyID string

	// Counterparty references the party the token is addressed to.
	Counterparty string

	// SelfLock locks the output to the encoder's own key (pubkey + OP_CHECKSIG).
	SelfLock bool

	// IncludeSignature appends a detached signature over the data fields.
	IncludeSignature bool

	// Position is the signature placement.
	Position SignaturePosition
}

// EncodingError describes an invalid field list.
type EncodingError struct {
	msg string
}

// NewEncodingError returns an encoding error.
func NewEncodingError(msg string) *EncodingError {
	return &EncodingError{msg: msg}
}

// Error returns the error string.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("token encoding: %s", e.msg)
}

// Encoder encodes locking tokens with a long-lived signing key.
type Encoder struct {
	key *btcec.PrivateKey
}

// NewEncoder returns an encoder. The key may be nil when neither self-locking
// nor signatures are requested.
func NewEncoder(key *btcec.PrivateKey) *Encoder {
	return &Encoder{key: key}
}

// PublicKeyHex returns the compressed hex encoding of the encoder's public key.
func (e *Encoder) PublicKeyHex() string {
	if e.key == nil {
		return ""
	}

	return fmt.Sprintf("%x", e.key.PubKey().SerializeCompressed())
}

// Encode serializes the ordered field list into a locking script. The output
// is deterministic for identical inputs and an identical signing key: the
// underlying signature scheme uses deterministic nonces.
func (e *Encoder) Encode(fields [][]byte, opts Options) ([]byte, error) {
	if len(fields) == 0 {
		return nil, NewEncodingError("field list is empty")
	}

	for i, f := range fields {
		if len(f) > MaxFieldSize {
			return nil, NewEncodingError(fmt.Sprintf("field %d exceeds %d bytes", i, MaxFieldSize))
		}
	}

	if (opts.SelfLock || opts.IncludeSignature) && e.key == nil {
		return nil, NewEncodingError("signing key required")
	}

	builder := txscript.NewScriptBuilder()

	if opts.SelfLock {
		builder.AddData(e.key.PubKey().SerializeCompressed())
		builder.AddOp(txscript.OP_CHECKSIG)
	}

	pushes := fields
	if opts.IncludeSignature {
		sig, err := e.sign(fields, opts)
		if err != nil {
			return nil, errors.Wrap(err, "sign token fields")
		}

		if opts.Position == SignatureBeforeFields {
			pushes = append([][]byte{sig}, fields...)
		} else {
			pushes = append(append([][]byte{}, fields...), sig)
		}
	}

	for _, p := range pushes {
		builder.AddData(p)
	}

	// Clear the data pushes off the stack so only the lock result remains.
	for n := len(pushes); n > 0; {
		if n >= 2 {
			builder.AddOp(txscript.OP_2DROP)
			n -= 2
		} else {
			builder.AddOp(txscript.OP_DROP)
			n--
		}
	}

	script, err := builder.Script()
	if err != nil {
		return nil, NewEncodingError(err.Error())
	}

	return script, nil
}

// sign computes the detached signature. The signed digest commits to the
// domain separation inputs and to every data field, length-prefixed in order.
func (e *Encoder) sign(fields [][]byte, opts Options) ([]byte, error) {
	h := sha256.New()

	for _, s := range []string{opts.ProtocolID, opts.KeyID, opts.Counterparty} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	var lenBuf [4]byte
	for _, f := range fields {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(f)))
		h.Write(lenBuf[:])
		h.Write(f)
	}

	sig, err := e.key.Sign(h.Sum(nil))
	if err != nil {
		return nil, err
	}

	return sig.Serialize(), nil
}
