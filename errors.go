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
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidResponse is returned when a response body could not be read as
// text where text was required
var ErrInvalidResponse = errors.New("invalid response body")

// ErrEmptyResponse is returned when the server returns an empty collection
// for an endpoint that guarantees at least one entry
var ErrEmptyResponse = errors.New("empty response")

// ErrInvalidIdentifier is returned when a hash or other identifier supplied
// by the caller or returned by the server cannot be parsed
var ErrInvalidIdentifier = errors.New("invalid identifier")

// HTTPError is returned when the server responds with a status code outside
// the 2xx range. The message is extracted from the response body when the
// body is valid text
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

// DecodeError is returned when a response payload does not match the
// expected shape for its decoder. Encoding names the decoding stage that
// failed (consensus, hex, json, or text)
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode: %s", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// isNotFound returns whether an error is an HTTPError with a 404 status. The
// optional request helpers use this to convert "not found" into an absent
// value
func isNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) &&
		httpErr.StatusCode == http.StatusNotFound
}
