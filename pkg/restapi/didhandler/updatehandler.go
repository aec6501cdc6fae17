/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didhandler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/anchordid/anchor-core-go/pkg/did"
	"github.com/anchordid/anchor-core-go/pkg/document"
	"github.com/anchordid/anchor-core-go/pkg/restapi/common"
	"github.com/anchordid/anchor-core-go/pkg/restapi/model"
)

// UpdateHandler updates anchored DID documents.
type UpdateHandler struct {
	basePath string
	registry Registry
}

// NewUpdateHandler returns a new DID update handler.
func NewUpdateHandler(basePath string, registry Registry) *UpdateHandler {
	return &UpdateHandler{basePath: basePath, registry: registry}
}

// Path returns the context path.
func (h *UpdateHandler) Path() string {
	return h.basePath + "/{id}"
}

// Method returns the HTTP method.
func (h *UpdateHandler) Method() string {
	return http.MethodPost
}

// Handler returns the handler.
func (h *UpdateHandler) Handler() common.HTTPRequestHandler {
	return h.Update
}

// Update updates a DID document.
func (h *UpdateHandler) Update(rw http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		common.WriteError(rw, http.StatusBadRequest, err)
		return
	}

	response, err := h.doUpdate(getID(req), body)
	if err != nil {
		common.WriteError(rw, err.(*common.HTTPError).Status(), err)
		return
	}

	common.WriteResponse(rw, http.StatusOK, response)
}

func (h *UpdateHandler) doUpdate(id string, body []byte) (*model.UpdateDIDResponse, error) {
	var request model.UpdateDIDRequest
	if err := json.Unmarshal(body, &request); err != nil {
		logger.Warnf("Update request validation error: %s", err.Error())
		return nil, common.NewHTTPError(http.StatusBadRequest, err)
	}

	result, err := h.registry.Update(id, document.DidDocumentFromJSONLDObject(request.Document))
	if err != nil {
		var formatErr *did.FormatError
		if errors.As(err, &formatErr) {
			logger.Warnf("Update request validation error: %s", err.Error())
			return nil, common.NewHTTPError(http.StatusBadRequest, err)
		}

		logger.Errorf("Internal server error: %s", err.Error())

		return nil, common.NewHTTPError(http.StatusInternalServerError, err)
	}

	return &model.UpdateDIDResponse{
		DID:      result.DID,
		Txid:     result.Transaction.Txid,
		Document: result.Document.JSONLdObject(),
	}, nil
}
