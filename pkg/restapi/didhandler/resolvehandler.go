/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didhandler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/anchordid/anchor-core-go/pkg/did"
	"github.com/anchordid/anchor-core-go/pkg/document"
	"github.com/anchordid/anchor-core-go/pkg/registry"
	"github.com/anchordid/anchor-core-go/pkg/restapi/common"
)

// ResolveHandler resolves DID documents.
type ResolveHandler struct {
	basePath string
	registry Registry
}

// NewResolveHandler returns a new DID resolve handler.
func NewResolveHandler(basePath string, registry Registry) *ResolveHandler {
	return &ResolveHandler{basePath: basePath, registry: registry}
}

// Path returns the context path.
func (h *ResolveHandler) Path() string {
	return h.basePath + "/{id}"
}

// Method returns the HTTP method.
func (h *ResolveHandler) Method() string {
	return http.MethodGet
}

// Handler returns the handler.
func (h *ResolveHandler) Handler() common.HTTPRequestHandler {
	return h.Resolve
}

// Resolve resolves a DID document.
func (h *ResolveHandler) Resolve(rw http.ResponseWriter, req *http.Request) {
	id := getID(req)
	logger.Debugf("Resolving DID document for ID [%s]", id)

	response, err := h.doResolve(id)
	if err != nil {
		common.WriteError(rw, err.(*common.HTTPError).Status(), err)
		return
	}

	logger.Debugf("... resolved DID document for ID [%s]", id)
	common.WriteResponse(rw, http.StatusOK, response.JSONLdObject())
}

func (h *ResolveHandler) doResolve(id string) (document.DIDDocument, error) {
	doc, err := h.registry.Resolve(id)
	if err != nil {
		var formatErr *did.FormatError
		if errors.As(err, &formatErr) {
			return nil, common.NewHTTPError(http.StatusBadRequest, err)
		}

		if errors.Is(err, registry.ErrNotFound) {
			return nil, common.NewHTTPError(http.StatusNotFound, errors.New("document not found"))
		}

		logger.Errorf("Internal server error: %s", err.Error())

		return nil, common.NewHTTPError(http.StatusInternalServerError, err)
	}

	return doc, nil
}

var getID = func(req *http.Request) string {
	return mux.Vars(req)["id"]
}
