/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

// VerificationMethod must include id and type properties, and exactly one value property.
type VerificationMethod map[string]interface{}

// NewVerificationMethod creates new verification method.
func NewVerificationMethod(m map[string]interface{}) VerificationMethod {
	return m
}

// ID is verification method ID.
func (vm VerificationMethod) ID() string {
	return stringEntry(vm[IDProperty])
}

// Type is verification method type.
func (vm VerificationMethod) Type() string {
	return stringEntry(vm[TypeProperty])
}

// Controller identifies the entity that controls the corresponding private key.
func (vm VerificationMethod) Controller() string {
	return stringEntry(vm[ControllerProperty])
}

// PublicKeyHex is the hex encoded public key value.
func (vm VerificationMethod) PublicKeyHex() string {
	return stringEntry(vm[PublicKeyHexProperty])
}

// JSONLdObject returns map that represents JSON LD Object.
func (vm VerificationMethod) JSONLdObject() map[string]interface{} {
	return vm
}

// ParseVerificationMethods is helper function for parsing verification methods.
func ParseVerificationMethods(entry interface{}) []VerificationMethod {
	if entry == nil {
		return nil
	}

	typedEntry, ok := entry.([]interface{})
	if !ok {
		return nil
	}

	var result []VerificationMethod
	for _, e := range typedEntry {
		emap, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		result = append(result, NewVerificationMethod(emap))
	}

	return result
}
