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
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// Response is a raw response from the Esplora server: the status code and the
// undecoded body bytes. It is consumed by exactly one decode step and not
// retained afterward
type Response struct {
	StatusCode int
	Body       []byte
}

// Text returns the response body as a string. It returns ErrInvalidResponse
// if the body is not valid UTF-8
func (r *Response) Text() (string, error) {
	if !utf8.Valid(r.Body) {
		return "", ErrInvalidResponse
	}
	return string(r.Body), nil
}

// Transport dispatches a single HTTP request and returns the raw response. A
// returned error indicates a transport-level failure (connection, DNS, HTTP
// framing); such failures are never retried. Implementations must be safe for
// concurrent use
type Transport interface {
	Do(
		ctx context.Context,
		method string,
		url string,
		headers map[string]string,
		body []byte,
	) (*Response, error)
}

// httpTransport is the default Transport backed by net/http
type httpTransport struct {
	client *http.Client
}

func newHTTPTransport() *httpTransport {
	return &httpTransport{
		client: &http.Client{},
	}
}

func (t *httpTransport) Do(
	ctx context.Context,
	method string,
	url string,
	headers map[string]string,
	body []byte,
) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
	}, nil
}
