/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package certhandler exposes the certificate issuance protocol over HTTP.
package certhandler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/anchordid/anchor-core-go/pkg/issuer"
	"github.com/anchordid/anchor-core-go/pkg/restapi/common"
	"github.com/anchordid/anchor-core-go/pkg/restapi/model"
)

var logger = log.New("anchor-restapi-certhandler")

// IdentityKeyHeader carries the externally authenticated requester identity.
// Header extraction beyond reading this value is out of scope.
const IdentityKeyHeader = "X-Identity-Key"

// Issuer runs the issuance pipeline.
type Issuer interface {
	Issue(identityKey string, req *issuer.Request) (*issuer.Response, error)
}

// SignHandler signs certificates.
type SignHandler struct {
	path   string
	issuer Issuer
}

// NewSignHandler returns a new certificate signing handler.
func NewSignHandler(path string, iss Issuer) *SignHandler {
	return &SignHandler{path: path, issuer: iss}
}

// Path returns the context path.
func (h *SignHandler) Path() string {
	return h.path
}

// Method returns the HTTP method.
func (h *SignHandler) Method() string {
	return http.MethodPost
}

// Handler returns the handler.
func (h *SignHandler) Handler() common.HTTPRequestHandler {
	return h.Sign
}

// Sign runs one issuance exchange. Validation failures surface with their
// description; every other failure surfaces as a generic internal error so
// internals never leak.
func (h *SignHandler) Sign(rw http.ResponseWriter, req *http.Request) {
	identityKey := req.Header.Get(IdentityKeyHeader)
	if identityKey == "" {
		common.WriteResponse(rw, http.StatusBadRequest, model.NewValidationErrorResponse("missing identity key"))
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		common.WriteResponse(rw, http.StatusBadRequest, model.NewValidationErrorResponse("unable to read request"))
		return
	}

	var request issuer.Request
	if err := json.Unmarshal(body, &request); err != nil {
		common.WriteResponse(rw, http.StatusBadRequest, model.NewValidationErrorResponse("request is not valid JSON"))
		return
	}

	response, err := h.issuer.Issue(identityKey, &request)
	if err != nil {
		var validationErr *issuer.ValidationError
		if errors.As(err, &validationErr) {
			logger.Warnf("Issuance request validation error: %s", err.Error())
			common.WriteResponse(rw, http.StatusBadRequest, model.NewValidationErrorResponse(err.Error()))
			return
		}

		logger.Errorf("Certificate issuance failed: %s", err.Error())
		common.WriteResponse(rw, http.StatusInternalServerError, model.NewInternalErrorResponse())

		return
	}

	common.WriteResponse(rw, http.StatusOK, &model.SignCertificateResponse{
		Certificate: response.Certificate,
		ServerNonce: response.ServerNonce,
	})
}
