/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"encoding/json"
	"io"
)

const (

	// ContextProperty defines key for context property.
	ContextProperty = "@context"

	// VerificationMethodProperty defines key for verification method.
	VerificationMethodProperty = "verificationMethod"

	// AuthenticationProperty defines key for authentication property.
	AuthenticationProperty = "authentication"

	// AssertionMethodProperty defines key for assertion method property.
	AssertionMethodProperty = "assertionMethod"

	// KeyAgreementProperty defines key for key agreement property.
	KeyAgreementProperty = "keyAgreement"

	// DelegationKeyProperty defines key for delegation key property.
	DelegationKeyProperty = "capabilityDelegation"

	// InvocationKeyProperty defines key for invocation key property.
	InvocationKeyProperty = "capabilityInvocation"

	// ControllerProperty defines key for controller.
	ControllerProperty = "controller"

	// TypeProperty describes type.
	TypeProperty = "type"

	// PublicKeyHexProperty defines hex encoding for public key.
	PublicKeyHexProperty = "publicKeyHex"
)

// DefaultContext is applied to documents created without a context.
const DefaultContext = "https://www.w3.org/ns/did/v1"

// Secp256k1VerificationKey2019 is the verification method type attached on create.
const Secp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"

// DIDDocument defines DID document data structure used for basic type safety checks.
type DIDDocument map[string]interface{}

// ID is identifier for DID subject (what DID document is about).
func (doc DIDDocument) ID() string {
	return stringEntry(doc[IDProperty])
}

// Context is the context of did document.
func (doc DIDDocument) Context() []interface{} {
	return interfaceArray(doc[ContextProperty])
}

// VerificationMethods are used for digital signatures, encryption and other cryptographic operations.
func (doc DIDDocument) VerificationMethods() []VerificationMethod {
	return ParseVerificationMethods(doc[VerificationMethodProperty])
}

// Authentications returns authentication array (mixture of strings and objects).
func (doc DIDDocument) Authentications() []interface{} {
	return interfaceArray(doc[AuthenticationProperty])
}

// AssertionMethods returns assertion method array (mixture of strings and objects).
func (doc DIDDocument) AssertionMethods() []interface{} {
	return interfaceArray(doc[AssertionMethodProperty])
}

// AgreementKeys returns agreement method array (mixture of strings and objects).
func (doc DIDDocument) AgreementKeys() []interface{} {
	return interfaceArray(doc[KeyAgreementProperty])
}

// DelegationKeys returns delegation method array (mixture of strings and objects).
func (doc DIDDocument) DelegationKeys() []interface{} {
	return interfaceArray(doc[DelegationKeyProperty])
}

// InvocationKeys returns invocation method array (mixture of strings and objects).
func (doc DIDDocument) InvocationKeys() []interface{} {
	return interfaceArray(doc[InvocationKeyProperty])
}

// JSONLdObject returns map that represents JSON LD Object.
func (doc DIDDocument) JSONLdObject() map[string]interface{} {
	return doc
}

// Bytes returns canonical byte representation of did document.
func (doc DIDDocument) Bytes() ([]byte, error) {
	return Document(doc).Bytes()
}

// Copy returns a deep copy of the document. Callers' documents are never
// mutated by registry operations.
func (doc DIDDocument) Copy() (DIDDocument, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return DidDocumentFromBytes(b)
}

// ApplyDefaultContext sets the default context on documents created without one.
func (doc DIDDocument) ApplyDefaultContext() {
	if len(doc.Context()) == 0 {
		doc[ContextProperty] = []interface{}{DefaultContext}
	}
}

// SetID assigns the document identifier. The identifier is assigned only
// after the underlying anchor transaction exists.
func (doc DIDDocument) SetID(id string) {
	doc[IDProperty] = id
}

// AttachVerificationMethod adds a single verification method controlled by the
// document subject and lists it under authentication and assertionMethod.
func (doc DIDDocument) AttachVerificationMethod(keyID, publicKeyHex string) {
	vm := VerificationMethod{
		IDProperty:           keyID,
		TypeProperty:         Secp256k1VerificationKey2019,
		ControllerProperty:   doc.ID(),
		PublicKeyHexProperty: publicKeyHex,
	}

	doc[VerificationMethodProperty] = []interface{}{vm.JSONLdObject()}
	doc[AuthenticationProperty] = []interface{}{keyID}
	doc[AssertionMethodProperty] = []interface{}{keyID}
}

// DIDDocumentFromReader creates an instance of DIDDocument by reading a JSON document from Reader.
func DIDDocumentFromReader(r io.Reader) (DIDDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return DidDocumentFromBytes(data)
}

// DidDocumentFromBytes creates an instance of DIDDocument by reading a JSON document from bytes.
func DidDocumentFromBytes(data []byte) (DIDDocument, error) {
	doc := make(DIDDocument)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DidDocumentFromJSONLDObject creates an instance of DIDDocument from json ld object.
func DidDocumentFromJSONLDObject(jsonldObject map[string]interface{}) DIDDocument {
	return jsonldObject
}
