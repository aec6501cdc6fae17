/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package overlay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/trustbloc/edge-core/pkg/log"
)

var logger = log.New("anchor-overlay")

// TopicsHeader carries the target topic of a submitted transaction.
const TopicsHeader = "X-Topics"

// BroadcastError describes a rejected overlay submit. No retry policy is
// defined at this layer.
type BroadcastError struct {
	msg string
}

// NewBroadcastError returns a broadcast error.
func NewBroadcastError(msg string) *BroadcastError {
	return &BroadcastError{msg: msg}
}

// Error returns the error string.
func (e *BroadcastError) Error() string {
	return "overlay broadcast: " + e.msg
}

// Notifier pushes newly anchored transactions to a network topic for
// indexing. Notification is best-effort: the caller decides what to do with a
// failure.
type Notifier struct {
	endpoint string
	client   *http.Client
}

// NotifierOpt configures the notifier.
type NotifierOpt func(*Notifier)

// WithNotifierHTTPClient overrides the default HTTP client.
func WithNotifierHTTPClient(client *http.Client) NotifierOpt {
	return func(n *Notifier) {
		n.client = client
	}
}

// NewNotifier returns a notifier for the submit endpoint.
func NewNotifier(endpoint string, opts ...NotifierOpt) *Notifier {
	n := &Notifier{endpoint: endpoint, client: http.DefaultClient}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

type submitResponse struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// Notify broadcasts the anchoring transaction to the named topic.
func (n *Notifier) Notify(topic string, txBytes []byte, serialNumber, txid string, outputIndex uint32) error {
	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewReader(txBytes))
	if err != nil {
		return NewBroadcastError(err.Error())
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(TopicsHeader, topic)

	resp, err := n.client.Do(req)
	if err != nil {
		return NewBroadcastError(err.Error())
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			logger.Warnf("Failed to close response body: %s", e.Error())
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return NewBroadcastError("submit returned status " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewBroadcastError("read response: " + err.Error())
	}

	var response submitResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return NewBroadcastError("unmarshal response: " + err.Error())
	}

	if strings.EqualFold(response.Status, "error") {
		return NewBroadcastError("submit rejected: " + response.Description)
	}

	logger.Debugf("Notified topic [%s] of txn [%s:%d] for serial number [%s]", topic, txid, outputIndex, serialNumber)

	return nil
}
