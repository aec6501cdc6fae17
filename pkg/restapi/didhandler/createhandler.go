/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didhandler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/anchordid/anchor-core-go/pkg/document"
	"github.com/anchordid/anchor-core-go/pkg/restapi/common"
	"github.com/anchordid/anchor-core-go/pkg/restapi/model"
)

// CreateHandler anchors new DID documents.
type CreateHandler struct {
	basePath string
	registry Registry
}

// NewCreateHandler returns a new DID create handler.
func NewCreateHandler(basePath string, registry Registry) *CreateHandler {
	return &CreateHandler{basePath: basePath, registry: registry}
}

// Path returns the context path.
func (h *CreateHandler) Path() string {
	return h.basePath
}

// Method returns the HTTP method.
func (h *CreateHandler) Method() string {
	return http.MethodPost
}

// Handler returns the handler.
func (h *CreateHandler) Handler() common.HTTPRequestHandler {
	return h.Create
}

// Create anchors a DID document.
func (h *CreateHandler) Create(rw http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		common.WriteError(rw, http.StatusBadRequest, err)
		return
	}

	response, err := h.doCreate(body)
	if err != nil {
		common.WriteError(rw, err.(*common.HTTPError).Status(), err)
		return
	}

	common.WriteResponse(rw, http.StatusOK, response)
}

func (h *CreateHandler) doCreate(body []byte) (*model.CreateDIDResponse, error) {
	var request model.CreateDIDRequest
	if err := json.Unmarshal(body, &request); err != nil {
		logger.Warnf("Create request validation error: %s", err.Error())
		return nil, common.NewHTTPError(http.StatusBadRequest, err)
	}

	result, err := h.registry.Create(document.DidDocumentFromJSONLDObject(request.Document), request.PublicKeyHex, request.KeyID)
	if err != nil {
		logger.Errorf("Internal server error: %s", err.Error())
		return nil, common.NewHTTPError(http.StatusInternalServerError, err)
	}

	return &model.CreateDIDResponse{
		DID:      result.DID,
		Txid:     result.Transaction.Txid,
		Document: result.Document.JSONLdObject(),
	}, nil
}
