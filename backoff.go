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
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries is the default number of times a request with a
	// retryable status is retried before the response is returned as-is
	DefaultMaxRetries = 6

	// baseBackoff is the delay before the first retry. The delay doubles
	// on each subsequent retry
	baseBackoff = 256 * time.Millisecond
)

// retryableStatusCodes are the HTTP status codes that trigger a retry. These
// cover transient server-side conditions (rate limiting, overload); anything
// else is surfaced to the decoding layer unmodified
var retryableStatusCodes = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusServiceUnavailable:  {},
}

// isStatusRetryable returns whether a status code belongs to the retryable set
func isStatusRetryable(status int) bool {
	_, ok := retryableStatusCodes[status]
	return ok
}

// backoffDelay returns the delay before retry number attempt (0-based),
// growing exponentially from base with no jitter
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << attempt
}
