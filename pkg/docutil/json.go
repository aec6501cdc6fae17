/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package docutil

import (
	"bytes"
	"encoding/json"
)

// MarshalCanonical marshals the object into a canonical JSON format.
// Canonical here means that the JSON fields are marshaled in a deterministic
// (sorted) order, so the same object always produces the same bytes. Signing
// and digest payloads are built from canonical bytes only.
func MarshalCanonical(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		var err error

		b, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
	}

	return getCanonicalContent(b)
}

// MarshalIndentCanonical is like MarshalCanonical but applies Indent to format the output.
func MarshalIndentCanonical(v interface{}, prefix, indent string) ([]byte, error) {
	b, err := MarshalCanonical(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b, prefix, indent); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// getCanonicalContent ensures that fields in the JSON doc are marshaled in a deterministic order.
func getCanonicalContent(content []byte) ([]byte, error) {
	m, err := unmarshalJSONMap(content)
	if err != nil {
		a, err := unmarshalJSONArray(content)
		if err != nil {
			return nil, err
		}

		// Re-marshal it in order to ensure that the JSON fields are marshaled in a deterministic order.
		return json.Marshal(a)
	}

	// Re-marshal it in order to ensure that the JSON fields are marshaled in a deterministic order.
	return json.Marshal(m)
}

func unmarshalJSONMap(b []byte) (map[string]interface{}, error) {
	m := make(map[string]interface{})
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func unmarshalJSONArray(b []byte) ([]map[string]interface{}, error) {
	var a []map[string]interface{}
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, err
	}

	return a, nil
}
