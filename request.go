// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package esplora

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/btcsuite/btcd/wire"
)

// ConsensusDecodable is satisfied by types that decode themselves from the
// canonical bitcoin consensus encoding. All relevant btcd wire types
// (wire.MsgTx, wire.MsgBlock, wire.BlockHeader, wire.MsgMerkleBlock)
// implement it
type ConsensusDecodable interface {
	BtcDecode(r io.Reader, pver uint32, enc wire.MessageEncoding) error
}

// ConsensusEncodable is satisfied by types that encode themselves to the
// canonical bitcoin consensus encoding
type ConsensusEncodable interface {
	BtcEncode(w io.Writer, pver uint32, enc wire.MessageEncoding) error
}

// getWithRetry sends a GET request to the given URL, retrying responses with
// a retryable status code until the configured retry bound is hit. The full
// header set is rebuilt on every attempt. Transport-level failures are
// terminal and returned immediately. Non-retryable statuses (including 404
// and other client errors) are returned as-is so each decoder can apply its
// own absent-vs-error policy
func (c *Client) getWithRetry(ctx context.Context, url string) (*Response, error) {
	attempts := 0

	for {
		resp, err := c.transport.Do(ctx, http.MethodGet, url, c.headers, nil)
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		if attempts < c.maxRetries && isStatusRetryable(resp.StatusCode) {
			delay := backoffDelay(baseBackoff, attempts)
			c.logger.Debug(
				"retrying request",
				"url", url,
				"status", resp.StatusCode,
				"attempt", attempts,
				"delay", delay,
			)
			if err := c.sleeper.Sleep(ctx, delay); err != nil {
				return nil, err
			}
			attempts++
			continue
		}
		return resp, nil
	}
}

// checkStatus converts a non-2xx response into an HTTPError carrying the
// status code and, when the body is valid text, the body as a message. A
// non-text body yields ErrInvalidResponse annotated with the status
func checkStatus(resp *Response) error {
	if resp.StatusCode <= 299 {
		return nil
	}
	message, err := resp.Text()
	if err != nil {
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrInvalidResponse)
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// getResponse sends a GET request and decodes the raw body into target using
// the bitcoin consensus encoding
func (c *Client) getResponse(
	ctx context.Context,
	path string,
	target ConsensusDecodable,
) error {
	resp, err := c.getWithRetry(ctx, c.url+path)
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := target.BtcDecode(
		bytes.NewReader(resp.Body),
		0,
		wire.WitnessEncoding,
	); err != nil {
		return &DecodeError{Encoding: "consensus", Err: err}
	}
	return nil
}

// getOptResponse is getResponse with a 404 response mapped to an absent value
func (c *Client) getOptResponse(
	ctx context.Context,
	path string,
	target ConsensusDecodable,
) (bool, error) {
	err := c.getResponse(ctx, path, target)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// getResponseHex sends a GET request, hex-decodes the text body, and decodes
// the resulting bytes into target using the bitcoin consensus encoding
func (c *Client) getResponseHex(
	ctx context.Context,
	path string,
	target ConsensusDecodable,
) error {
	text, err := c.getResponseText(ctx, path)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		return &DecodeError{Encoding: "hex", Err: err}
	}
	if err := target.BtcDecode(
		bytes.NewReader(raw),
		0,
		wire.WitnessEncoding,
	); err != nil {
		return &DecodeError{Encoding: "consensus", Err: err}
	}
	return nil
}

// getOptResponseHex is getResponseHex with a 404 response mapped to an absent
// value
func (c *Client) getOptResponseHex(
	ctx context.Context,
	path string,
	target ConsensusDecodable,
) (bool, error) {
	err := c.getResponseHex(ctx, path, target)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// getResponseJSON sends a GET request and decodes the JSON body into target
func (c *Client) getResponseJSON(
	ctx context.Context,
	path string,
	target any,
) error {
	text, err := c.getResponseText(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), target); err != nil {
		return &DecodeError{Encoding: "json", Err: err}
	}
	return nil
}

// getOptResponseJSON is getResponseJSON with a 404 response mapped to an
// absent value
func (c *Client) getOptResponseJSON(
	ctx context.Context,
	path string,
	target any,
) (bool, error) {
	err := c.getResponseJSON(ctx, path, target)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// getResponseText sends a GET request and returns the body as text
func (c *Client) getResponseText(
	ctx context.Context,
	path string,
) (string, error) {
	resp, err := c.getWithRetry(ctx, c.url+path)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return resp.Text()
}

// getOptResponseText is getResponseText with a 404 response mapped to an
// absent value
func (c *Client) getOptResponseText(
	ctx context.Context,
	path string,
) (string, bool, error) {
	text, err := c.getResponseText(ctx, path)
	if err == nil {
		return text, true, nil
	}
	if isNotFound(err) {
		return "", false, nil
	}
	return "", false, err
}

// postRequestHex serializes body to its consensus encoding, hex-encodes it,
// and sends it as a POST request body with the full header set. The response
// body is not decoded on success. POST requests are never retried
func (c *Client) postRequestHex(
	ctx context.Context,
	path string,
	body ConsensusEncodable,
) error {
	var buf bytes.Buffer
	if err := body.BtcEncode(&buf, 0, wire.WitnessEncoding); err != nil {
		return &DecodeError{Encoding: "consensus", Err: err}
	}
	payload := []byte(hex.EncodeToString(buf.Bytes()))

	resp, err := c.transport.Do(
		ctx,
		http.MethodPost,
		c.url+path,
		c.headers,
		payload,
	)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	return checkStatus(resp)
}
