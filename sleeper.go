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
	"context"
	"time"
)

// Sleeper suspends the calling goroutine between retry attempts. It exists as
// an interface so that callers can swap the scheduler used for backoff delays,
// and so that tests can observe requested delays without waiting for them.
// Implementations must not block unrelated goroutines sharing the same client
type Sleeper interface {
	// Sleep pauses for the given duration. It returns early with ctx.Err()
	// if the context is canceled before the duration elapses
	Sleep(ctx context.Context, d time.Duration) error
}

// DefaultSleeper is the production Sleeper backed by the runtime timer
type DefaultSleeper struct{}

// Sleep pauses for the given duration or until the context is canceled
func (DefaultSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
