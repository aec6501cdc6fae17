/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package model holds the wire models of the REST surface.
package model

import "github.com/anchordid/anchor-core-go/pkg/issuer"

// StatusError is the status written into error response bodies.
const StatusError = "error"

// CodeInternal marks a generic internal failure. Details never reach the
// caller; they are logged server-side only.
const CodeInternal = "ERR_INTERNAL"

// ErrorResponse is the error body of the certificate endpoint.
type ErrorResponse struct {
	Status      string `json:"status"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description"`
}

// NewValidationErrorResponse returns the 400 body carrying the description.
func NewValidationErrorResponse(description string) *ErrorResponse {
	return &ErrorResponse{Status: StatusError, Description: description}
}

// NewInternalErrorResponse returns the generic 500 body.
func NewInternalErrorResponse() *ErrorResponse {
	return &ErrorResponse{Status: StatusError, Code: CodeInternal, Description: "internal server error"}
}

// CreateDIDRequest is the create request body.
type CreateDIDRequest struct {
	Document     map[string]interface{} `json:"didDocument"`
	PublicKeyHex string                 `json:"publicKeyHex,omitempty"`
	KeyID        string                 `json:"keyID,omitempty"`
}

// CreateDIDResponse is the create response body.
type CreateDIDResponse struct {
	DID      string                 `json:"did"`
	Txid     string                 `json:"txid"`
	Document map[string]interface{} `json:"didDocument"`
}

// UpdateDIDRequest is the update request body.
type UpdateDIDRequest struct {
	Document map[string]interface{} `json:"didDocument"`
}

// UpdateDIDResponse is the update response body.
type UpdateDIDResponse struct {
	DID      string                 `json:"did"`
	Txid     string                 `json:"txid"`
	Document map[string]interface{} `json:"didDocument"`
}

// SignCertificateResponse is the success body of the certificate endpoint.
type SignCertificateResponse struct {
	Certificate *issuer.Certificate `json:"certificate"`
	ServerNonce string              `json:"serverNonce"`
}
