/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didhandler exposes DID registry operations over HTTP.
package didhandler

import (
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/anchordid/anchor-core-go/pkg/document"
	"github.com/anchordid/anchor-core-go/pkg/registry"
)

var logger = log.New("anchor-restapi-didhandler")

// Registry performs the DID operations.
type Registry interface {
	Create(doc document.DIDDocument, publicKeyHex, keyID string) (*registry.CreateResult, error)
	Resolve(did string) (document.DIDDocument, error)
	Update(did string, doc document.DIDDocument) (*registry.UpdateResult, error)
}
