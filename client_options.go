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
	"log/slog"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithBaseURL specifies the base URL of the Esplora server, e.g.
// https://blockstream.info/api. This option is required
func WithBaseURL(url string) ClientOptionFunc {
	return func(c *Client) {
		c.url = url
	}
}

// WithMaxRetries specifies the number of times a request with a retryable
// status is retried. The default is DefaultMaxRetries
func WithMaxRetries(maxRetries int) ClientOptionFunc {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

// WithHeaders specifies headers applied to every outgoing request. The map
// is applied in full on every attempt of a retried request
func WithHeaders(headers map[string]string) ClientOptionFunc {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithHeader adds a single header applied to every outgoing request
func WithHeader(key string, value string) ClientOptionFunc {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = map[string]string{}
		}
		c.headers[key] = value
	}
}

// WithTransport specifies the transport used to dispatch requests. If none is
// provided, a net/http backed transport is used
func WithTransport(transport Transport) ClientOptionFunc {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithSleeper specifies the sleeper used for backoff delays between retries.
// If none is provided, DefaultSleeper is used
func WithSleeper(sleeper Sleeper) ClientOptionFunc {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger specifies the logger. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
