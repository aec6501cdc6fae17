/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did implements the identifier grammar for ledger-anchored DIDs.
//
// Two surface forms are valid:
//
//	did:<method>:<topic>:<serial-hex>            (creation form, 4 segments)
//	did:<method>:<topic>:<txid>:<outputIndex>    (updated form, 5 segments)
//
// Parse returns a tagged result (*CreationForm or *UpdatedForm) so callers
// dispatch on the form explicitly instead of indexing into split segments.
// Any other segment count is a format error.
package did

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the fixed first segment of every identifier.
const Prefix = "did"

const delimiter = ":"

// ID is implemented by both identifier forms.
type ID interface {
	// Method is the DID method segment.
	Method() string

	// Topic is the overlay topic the identifier is anchored under.
	Topic() string

	// String assembles the identifier string.
	String() string
}

// CreationForm is the identifier assigned immediately after creation. The
// serial number is the hex encoded content digest committed in the anchor
// output.
type CreationForm struct {
	method       string
	topic        string
	serialNumber string
}

// NewCreationForm returns a creation form identifier.
func NewCreationForm(method, topic, serialNumber string) *CreationForm {
	return &CreationForm{method: method, topic: topic, serialNumber: serialNumber}
}

// Method is the DID method segment.
func (d *CreationForm) Method() string {
	return d.method
}

// Topic is the overlay topic the identifier is anchored under.
func (d *CreationForm) Topic() string {
	return d.topic
}

// SerialNumber is the hex encoded serial number.
func (d *CreationForm) SerialNumber() string {
	return d.serialNumber
}

// String assembles the identifier string.
func (d *CreationForm) String() string {
	return strings.Join([]string{Prefix, d.method, d.topic, d.serialNumber}, delimiter)
}

// UpdatedForm is the identifier assigned after an update. It references the
// ledger outpoint carrying the latest document.
type UpdatedForm struct {
	method      string
	topic       string
	txid        string
	outputIndex uint32
}

// NewUpdatedForm returns an updated form identifier.
func NewUpdatedForm(method, topic, txid string, outputIndex uint32) *UpdatedForm {
	return &UpdatedForm{method: method, topic: topic, txid: txid, outputIndex: outputIndex}
}

// Method is the DID method segment.
func (d *UpdatedForm) Method() string {
	return d.method
}

// Topic is the overlay topic the identifier is anchored under.
func (d *UpdatedForm) Topic() string {
	return d.topic
}

// Txid is the transaction carrying the latest document.
func (d *UpdatedForm) Txid() string {
	return d.txid
}

// OutputIndex is the output within Txid carrying the latest document.
func (d *UpdatedForm) OutputIndex() uint32 {
	return d.outputIndex
}

// String assembles the identifier string.
func (d *UpdatedForm) String() string {
	return strings.Join([]string{
		Prefix, d.method, d.topic, d.txid, strconv.FormatUint(uint64(d.outputIndex), 10),
	}, delimiter)
}

// FormatError describes a malformed identifier.
type FormatError struct {
	value  string
	reason string
}

// NewFormatError returns a format error for the given identifier value.
func NewFormatError(value, reason string) *FormatError {
	return &FormatError{value: value, reason: reason}
}

// Error returns the error string.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid did [%s]: %s", e.value, e.reason)
}

// Parse parses an identifier string into its tagged form. The returned ID is
// either *CreationForm (4 segments) or *UpdatedForm (5 segments); any other
// segment count, prefix or segment content yields *FormatError.
func Parse(value string) (ID, error) {
	segments := strings.Split(value, delimiter)

	if segments[0] != Prefix {
		return nil, NewFormatError(value, "must start with 'did'")
	}

	for _, segment := range segments {
		if segment == "" {
			return nil, NewFormatError(value, "empty segment")
		}
	}

	switch len(segments) {
	case 4:
		if _, err := hex.DecodeString(segments[3]); err != nil {
			return nil, NewFormatError(value, "serial number is not hex")
		}

		return NewCreationForm(segments[1], segments[2], segments[3]), nil
	case 5:
		if _, err := hex.DecodeString(segments[3]); err != nil {
			return nil, NewFormatError(value, "txid is not hex")
		}

		index, err := strconv.ParseUint(segments[4], 10, 32)
		if err != nil {
			return nil, NewFormatError(value, "output index is not a number")
		}

		return NewUpdatedForm(segments[1], segments[2], segments[3], uint32(index)), nil
	default:
		return nil, NewFormatError(value, fmt.Sprintf("expected 4 or 5 segments, got %d", len(segments)))
	}
}
