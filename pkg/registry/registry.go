/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package registry orchestrates DID document create, resolve and update
// against a ledger transaction collaborator, a lookup index and the overlay
// network.
//
// Side effects that are best-effort (the index write and the overlay notify)
// never fail the operation; their outcomes are returned as inspectable values
// on the result so the consistency gap between the anchor and the index stays
// visible.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/txscript"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/anchordid/anchor-core-go/pkg/api/anchor"
	"github.com/anchordid/anchor-core-go/pkg/api/wallet"
	"github.com/anchordid/anchor-core-go/pkg/did"
	"github.com/anchordid/anchor-core-go/pkg/document"
	"github.com/anchordid/anchor-core-go/pkg/token"
)

var logger = log.New("anchor-registry")

// ErrNotFound is returned by Resolve when no local index entry exists. No
// blind on-chain search is attempted: resolution without a local index hint
// is a stated limitation of this core.
var ErrNotFound = errors.New("did document not found")

const (
	// didProtocolID is the domain separation tag of the anchor token.
	didProtocolID = "did"

	anchorKeyID        = "1"
	anchorCounterparty = "self"
	anchorSatoshis     = 1

	// dataScriptTag marks the generic tagged-data output written on update.
	dataScriptTag = "did"

	updatedDocumentOutputIndex = 0
	ownershipOutputIndex       = 1
)

// LookupProvider queries the overlay network for anchored outputs.
type LookupProvider interface {
	Lookup(serialNumber string, outpoint wallet.Outpoint) ([][]byte, error)
}

// Notifier pushes an anchoring transaction to a network topic.
type Notifier interface {
	Notify(topic string, txBytes []byte, serialNumber, txid string, outputIndex uint32) error
}

// Registry anchors DID documents on the ledger.
type Registry struct {
	method   string
	topic    string
	creator  wallet.Creator
	encoder  *token.Encoder
	store    anchor.Store
	lookup   LookupProvider
	notifier Notifier

	now      func() time.Time
	newNonce func() string
}

// Option configures the registry.
type Option func(*Registry)

// WithStore sets the lookup-index store. Index writes are best-effort.
func WithStore(store anchor.Store) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithLookupProvider sets the overlay lookup provider used during resolution.
func WithLookupProvider(provider LookupProvider) Option {
	return func(r *Registry) {
		r.lookup = provider
	}
}

// WithNotifier sets the overlay notifier invoked after a successful create.
func WithNotifier(notifier Notifier) Option {
	return func(r *Registry) {
		r.notifier = notifier
	}
}

// New returns a registry anchoring documents under the given method and topic.
func New(method, topic string, creator wallet.Creator, encoder *token.Encoder, opts ...Option) *Registry {
	r := &Registry{
		method:   method,
		topic:    topic,
		creator:  creator,
		encoder:  encoder,
		now:      time.Now,
		newNonce: uuid.NewString,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// CreateResult is returned by Create. IndexErr and NotifyErr report the
// best-effort side effects; they are never raised as the operation error and
// never roll back the already-created anchor.
type CreateResult struct {
	DID         string
	Transaction *wallet.TransactionResult
	Document    document.DIDDocument
	IndexErr    error
	NotifyErr   error
}

// UpdateResult is returned by Update.
type UpdateResult struct {
	DID         string
	Transaction *wallet.TransactionResult
	Document    document.DIDDocument
}

// Create anchors the document and returns its creation-form identifier.
//
// The serial number is a digest over the document content salted with the
// current time and a random nonce, so two creations of the same document
// yield different serial numbers. No deduplication or locking is performed
// across concurrent creates.
func (r *Registry) Create(doc document.DIDDocument, publicKeyHex, keyID string) (*CreateResult, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}

	docCopy, err := doc.Copy()
	if err != nil {
		return nil, errors.Wrap(err, "copy document")
	}

	docCopy.ApplyDefaultContext()

	serialNumber, err := r.generateSerialNumber(docCopy)
	if err != nil {
		return nil, err
	}

	fields := [][]byte{serialNumber}

	script, err := r.encoder.Encode(fields, token.Options{
		ProtocolID:       didProtocolID,
		KeyID:            anchorKeyID,
		Counterparty:     anchorCounterparty,
		SelfLock:         true,
		IncludeSignature: true,
		Position:         token.SignatureAfterFields,
	})
	if err != nil {
		return nil, err
	}

	serialHex := hex.EncodeToString(serialNumber)

	txResult, err := r.creator.CreateTransaction(&wallet.TransactionRequest{
		Description: "anchor did document",
		Outputs: []wallet.Output{
			{
				Satoshis:      anchorSatoshis,
				LockingScript: script,
				Description:   "did anchor token",
				Metadata: &wallet.OutputMetadata{
					ProtocolID:   didProtocolID,
					KeyID:        anchorKeyID,
					Counterparty: anchorCounterparty,
					Fields:       fields,
					Document:     docCopy.JSONLdObject(),
				},
			},
		},
	})
	if err != nil {
		return nil, asTransactionError(err)
	}

	didID := did.NewCreationForm(r.method, r.topic, serialHex)

	docCopy.SetID(didID.String())

	if publicKeyHex != "" {
		kid := keyID
		if kid == "" {
			kid = didID.String() + "#key-1"
		}

		docCopy.AttachVerificationMethod(kid, publicKeyHex)
	}

	result := &CreateResult{
		DID:         didID.String(),
		Transaction: txResult,
		Document:    docCopy,
	}

	r.persistRecord(serialHex, txResult, docCopy, result)
	r.notify(serialHex, txResult, result)

	return result, nil
}

// Resolve returns the document for a creation-form identifier. Resolution
// consults the local index first; when the index holds only the outpoint, the
// overlay provider is queried. Without any local index entry the document is
// reported as not found.
func (r *Registry) Resolve(didStr string) (document.DIDDocument, error) {
	id, err := did.Parse(didStr)
	if err != nil {
		return nil, err
	}

	creation, ok := id.(*did.CreationForm)
	if !ok {
		return nil, did.NewFormatError(didStr, "resolution requires the creation form identifier")
	}

	if r.store == nil {
		return nil, ErrNotFound
	}

	record, err := r.store.Get(creation.SerialNumber())
	if err != nil {
		if errors.Is(err, anchor.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "read lookup index")
	}

	if record.Document != nil {
		return document.DidDocumentFromJSONLDObject(record.Document), nil
	}

	if r.lookup == nil {
		return nil, ErrNotFound
	}

	fields, err := r.lookup.Lookup(creation.SerialNumber(), wallet.Outpoint{
		Txid:        record.Txid,
		OutputIndex: record.OutputIndex,
	})
	if err != nil {
		return nil, err
	}

	doc, err := document.DidDocumentFromBytes(fields[0])
	if err != nil {
		logger.Debugf("Anchored field is not a structured document, returning raw content: %s", err.Error())

		return document.DIDDocument{"raw": string(fields[0])}, nil
	}

	return doc, nil
}

// Update spends the previous anchor output and writes the new document. It
// requires the outpoint-form identifier: an identifier still in serial-number
// form must first be resolved to its outpoint.
func (r *Registry) Update(didStr string, newDoc document.DIDDocument) (*UpdateResult, error) {
	id, err := did.Parse(didStr)
	if err != nil {
		return nil, err
	}

	updated, ok := id.(*did.UpdatedForm)
	if !ok {
		return nil, did.NewFormatError(didStr, "update requires the outpoint form identifier")
	}

	if newDoc == nil {
		return nil, errors.New("document is required")
	}

	docCopy, err := newDoc.Copy()
	if err != nil {
		return nil, errors.Wrap(err, "copy document")
	}

	docCopy.ApplyDefaultContext()

	docBytes, err := docCopy.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}

	dataScript, err := buildDataScript(docBytes)
	if err != nil {
		return nil, err
	}

	docDigest := sha256.Sum256(docBytes)

	ownershipScript, err := r.encoder.Encode([][]byte{docDigest[:]}, token.Options{
		ProtocolID:       didProtocolID,
		KeyID:            anchorKeyID,
		Counterparty:     anchorCounterparty,
		SelfLock:         true,
		IncludeSignature: true,
		Position:         token.SignatureAfterFields,
	})
	if err != nil {
		return nil, err
	}

	txResult, err := r.creator.CreateTransaction(&wallet.TransactionRequest{
		Description: "update did document",
		Inputs: []wallet.Input{
			{
				Outpoint:    wallet.Outpoint{Txid: updated.Txid(), OutputIndex: updated.OutputIndex()},
				Description: "previous did anchor",
			},
		},
		Outputs: []wallet.Output{
			{
				Satoshis:      anchorSatoshis,
				LockingScript: dataScript,
				Description:   "updated did document",
			},
			{
				Satoshis:      anchorSatoshis,
				LockingScript: ownershipScript,
				Description:   "did ownership token",
			},
		},
	})
	if err != nil {
		return nil, asTransactionError(err)
	}

	newID := did.NewUpdatedForm(r.method, r.topic, txResult.Txid, ownershipOutputIndex)

	docCopy.SetID(newID.String())

	return &UpdateResult{
		DID:         newID.String(),
		Transaction: txResult,
		Document:    docCopy,
	}, nil
}

// generateSerialNumber hashes the document content salted with the current
// time and a random nonce. Collision avoidance relies solely on this salting.
func (r *Registry) generateSerialNumber(doc document.DIDDocument) ([]byte, error) {
	docBytes, err := doc.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}

	payload := make([]byte, 0, len(docBytes)+64)
	payload = append(payload, docBytes...)
	payload = append(payload, []byte(r.now().Format(time.RFC3339Nano))...)
	payload = append(payload, []byte(r.newNonce())...)

	digest := sha256.Sum256(payload)

	return digest[:], nil
}

func (r *Registry) persistRecord(serialHex string, txResult *wallet.TransactionResult, doc document.DIDDocument, result *CreateResult) {
	if r.store == nil {
		return
	}

	err := r.store.Put(&anchor.Record{
		SerialNumber: serialHex,
		Txid:         txResult.Txid,
		OutputIndex:  updatedDocumentOutputIndex,
		Topic:        r.topic,
		Document:     doc.JSONLdObject(),
		CreatedAt:    r.now(),
	})
	if err != nil {
		// The anchor already exists; the index write is best-effort and its
		// failure leaves a consistency gap between the anchor and the index.
		logger.Warnf("Failed to persist anchor record for serial number [%s]: %s", serialHex, err.Error())

		result.IndexErr = err
	}
}

func (r *Registry) notify(serialHex string, txResult *wallet.TransactionResult, result *CreateResult) {
	if r.notifier == nil {
		return
	}

	err := r.notifier.Notify(r.topic, txResult.Tx, serialHex, txResult.Txid, updatedDocumentOutputIndex)
	if err != nil {
		logger.Warnf("Failed to notify topic [%s] of txn [%s]: %s", r.topic, txResult.Txid, err.Error())

		result.NotifyErr = err
	}
}

// buildDataScript builds the generic tagged-data script carrying the new
// document on update.
func buildDataScript(docBytes []byte) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_FALSE).
		AddOp(txscript.OP_RETURN).
		AddData([]byte(dataScriptTag)).
		AddFullData(docBytes).
		Script()
	if err != nil {
		return nil, errors.Wrap(err, "build data script")
	}

	return script, nil
}

func asTransactionError(err error) error {
	var txErr *wallet.TransactionError
	if errors.As(err, &txErr) {
		return err
	}

	return wallet.NewTransactionError(err)
}
