/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"@context": ["https://w3id.org/did/v1"],
	"verificationMethod": [{
		"id": "did:example:123#key-1",
		"type": "EcdsaSecp256k1VerificationKey2019",
		"controller": "did:example:123",
		"publicKeyHex": "02ab"
	}],
	"authentication": ["did:example:123#key-1"]
}`

func TestDidDocumentFromBytes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		doc, err := DidDocumentFromBytes([]byte(sampleDoc))
		require.NoError(t, err)
		require.Len(t, doc.Context(), 1)
		require.Len(t, doc.VerificationMethods(), 1)
		require.Len(t, doc.Authentications(), 1)
		require.Empty(t, doc.AssertionMethods())
		require.Empty(t, doc.AgreementKeys())
		require.Empty(t, doc.DelegationKeys())
		require.Empty(t, doc.InvocationKeys())

		vm := doc.VerificationMethods()[0]
		require.Equal(t, "did:example:123#key-1", vm.ID())
		require.Equal(t, "EcdsaSecp256k1VerificationKey2019", vm.Type())
		require.Equal(t, "did:example:123", vm.Controller())
		require.Equal(t, "02ab", vm.PublicKeyHex())
	})

	t.Run("error - invalid json", func(t *testing.T) {
		doc, err := DidDocumentFromBytes([]byte("invalid"))
		require.Error(t, err)
		require.Nil(t, doc)
	})
}

func TestDIDDocumentFromReader(t *testing.T) {
	doc, err := DIDDocumentFromReader(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.VerificationMethods(), 1)
}

func TestApplyDefaultContext(t *testing.T) {
	t.Run("applies default when absent", func(t *testing.T) {
		doc := DIDDocument{}
		doc.ApplyDefaultContext()
		require.Equal(t, []interface{}{DefaultContext}, doc.Context())
	})

	t.Run("keeps existing context", func(t *testing.T) {
		doc, err := DidDocumentFromBytes([]byte(sampleDoc))
		require.NoError(t, err)

		doc.ApplyDefaultContext()
		require.Equal(t, []interface{}{"https://w3id.org/did/v1"}, doc.Context())
	})
}

func TestAttachVerificationMethod(t *testing.T) {
	doc := DIDDocument{}
	doc.SetID("did:example:456")
	doc.AttachVerificationMethod("did:example:456#key-1", "02cd")

	require.Equal(t, "did:example:456", doc.ID())
	require.Len(t, doc.VerificationMethods(), 1)

	vm := doc.VerificationMethods()[0]
	require.Equal(t, doc.ID(), vm.Controller())
	require.Equal(t, "02cd", vm.PublicKeyHex())

	require.Equal(t, []interface{}{"did:example:456#key-1"}, doc.Authentications())
	require.Equal(t, []interface{}{"did:example:456#key-1"}, doc.AssertionMethods())
}

func TestCopy(t *testing.T) {
	doc, err := DidDocumentFromBytes([]byte(sampleDoc))
	require.NoError(t, err)

	docCopy, err := doc.Copy()
	require.NoError(t, err)

	docCopy.SetID("did:example:789")
	require.Equal(t, "", doc.ID())
	require.Equal(t, "did:example:789", docCopy.ID())
}

func TestBytes_Deterministic(t *testing.T) {
	doc, err := DidDocumentFromBytes([]byte(sampleDoc))
	require.NoError(t, err)

	first, err := doc.Bytes()
	require.NoError(t, err)

	second, err := doc.Bytes()
	require.NoError(t, err)

	require.Equal(t, first, second)
}
