/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package overlay talks to the overlay network: a lookup service answering
// serial-number queries over indexed ledger outputs, and a submit endpoint
// accepting anchoring transactions for a named topic.
package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anchordid/anchor-core-go/pkg/api/wallet"
	"github.com/anchordid/anchor-core-go/pkg/docutil"
)

// LookupService is the well-known service name of the DID lookup provider.
const LookupService = "ls_did"

const outputListType = "output-list"

// ProviderError describes an overlay lookup failure: a non-success network
// status or a malformed payload.
type ProviderError struct {
	msg string
}

// NewProviderError returns a provider error.
func NewProviderError(format string, args ...interface{}) *ProviderError {
	return &ProviderError{msg: fmt.Sprintf(format, args...)}
}

// Error returns the error string.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("overlay provider: %s", e.msg)
}

// LookupClient queries the overlay lookup service.
type LookupClient struct {
	endpoint string
	client   *http.Client
}

// ClientOpt configures the lookup client.
type ClientOpt func(*LookupClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOpt {
	return func(c *LookupClient) {
		c.client = client
	}
}

// NewLookupClient returns a client for the lookup endpoint.
func NewLookupClient(endpoint string, opts ...ClientOpt) *LookupClient {
	c := &LookupClient{endpoint: endpoint, client: http.DefaultClient}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type lookupRequest struct {
	Service string      `json:"service"`
	Query   lookupQuery `json:"query"`
}

type lookupQuery struct {
	SerialNumber string `json:"serialNumber"`
	Outpoint     string `json:"outpoint"`
}

type lookupResponse struct {
	Type    string         `json:"type"`
	Outputs []lookupOutput `json:"outputs"`
}

type lookupOutput struct {
	Fields []string `json:"fields"`
}

// Lookup queries the provider for outputs anchored under the given serial
// number and outpoint, and returns the decoded fields of the first output.
func (c *LookupClient) Lookup(serialNumber string, outpoint wallet.Outpoint) ([][]byte, error) {
	reqBytes, err := json.Marshal(&lookupRequest{
		Service: LookupService,
		Query:   lookupQuery{SerialNumber: serialNumber, Outpoint: outpoint.String()},
	})
	if err != nil {
		return nil, NewProviderError("marshal query: %s", err.Error())
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, NewProviderError("post query: %s", err.Error())
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			logger.Warnf("Failed to close response body: %s", e.Error())
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError("lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError("read response: %s", err.Error())
	}

	var response lookupResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, NewProviderError("unmarshal response: %s", err.Error())
	}

	if response.Type != outputListType {
		return nil, NewProviderError("unexpected response type [%s]", response.Type)
	}

	if len(response.Outputs) == 0 {
		return nil, NewProviderError("no outputs for serial number [%s]", serialNumber)
	}

	fields := make([][]byte, 0, len(response.Outputs[0].Fields))
	for i, f := range response.Outputs[0].Fields {
		decoded, err := docutil.DecodeString(f)
		if err != nil {
			return nil, NewProviderError("decode field %d: %s", i, err.Error())
		}

		fields = append(fields, decoded)
	}

	if len(fields) == 0 {
		return nil, NewProviderError("output has no fields")
	}

	return fields, nil
}
