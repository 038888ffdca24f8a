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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCall struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

type mockStep struct {
	resp *Response
	err  error
}

// mockTransport replays a scripted sequence of responses and records every
// dispatched request
type mockTransport struct {
	mu    sync.Mutex
	steps []mockStep
	calls []mockCall
}

func (m *mockTransport) Do(
	_ context.Context,
	method string,
	url string,
	headers map[string]string,
	body []byte,
) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	headersCopy := make(map[string]string, len(headers))
	for key, value := range headers {
		headersCopy[key] = value
	}
	m.calls = append(m.calls, mockCall{
		method:  method,
		url:     url,
		headers: headersCopy,
		body:    body,
	})
	if len(m.steps) == 0 {
		return nil, errors.New("mock transport: no scripted response")
	}
	step := m.steps[0]
	if len(m.steps) > 1 {
		m.steps = m.steps[1:]
	}
	return step.resp, step.err
}

// recordingSleeper records requested delays and returns instantly
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

func newMockClient(
	t *testing.T,
	transport *mockTransport,
	options ...ClientOptionFunc,
) (*Client, *recordingSleeper) {
	t.Helper()
	sleeper := &recordingSleeper{}
	options = append(
		[]ClientOptionFunc{
			WithBaseURL("http://esplora.test"),
			WithTransport(transport),
			WithSleeper(sleeper),
		},
		options...,
	)
	client, err := NewClient(options...)
	require.NoError(t, err)
	return client, sleeper
}

// testTx returns a small coinbase-style transaction for round-trip tests
func testTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(
		wire.NewTxIn(
			wire.NewOutPoint(&chainhash.Hash{}, 0xffffffff),
			[]byte{0x04, 0x01, 0x02, 0x03, 0x04},
			nil,
		),
	)
	tx.AddTxOut(wire.NewTxOut(5000000000, []byte{0x51}))
	return tx
}

func serializeTx(t *testing.T, tx *wire.MsgTx) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tx.BtcEncode(&buf, 0, wire.WitnessEncoding))
	return buf.Bytes()
}

func TestGetWithRetry(t *testing.T) {
	t.Run("RetryableThenSuccess", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 503, Body: []byte("overloaded")}},
				{resp: &Response{StatusCode: 503, Body: []byte("overloaded")}},
				{resp: &Response{StatusCode: 200, Body: []byte("ok")}},
			},
		}
		client, sleeper := newMockClient(t, transport)

		resp, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Len(t, transport.calls, 3)
		assert.Equal(
			t,
			[]time.Duration{256 * time.Millisecond, 512 * time.Millisecond},
			sleeper.delays,
		)
	})

	t.Run("NonRetryableReturnedImmediately", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 404, Body: []byte("not found")}},
			},
		}
		client, sleeper := newMockClient(t, transport)

		resp, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Len(t, transport.calls, 1)
		assert.Empty(t, sleeper.delays)
	})

	t.Run("MaxRetriesExhausted", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 503, Body: []byte("overloaded")}},
			},
		}
		client, sleeper := newMockClient(t, transport, WithMaxRetries(3))

		resp, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.NoError(t, err)
		// The final still-retryable response is returned rather than
		// retrying indefinitely
		assert.Equal(t, 503, resp.StatusCode)
		assert.Len(t, transport.calls, 4)
		assert.Equal(
			t,
			[]time.Duration{
				256 * time.Millisecond,
				512 * time.Millisecond,
				1024 * time.Millisecond,
			},
			sleeper.delays,
		)
	})

	t.Run("TransportErrorTerminal", func(t *testing.T) {
		transportErr := errors.New("connection refused")
		transport := &mockTransport{
			steps: []mockStep{
				{err: transportErr},
			},
		}
		client, sleeper := newMockClient(t, transport)

		_, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.ErrorIs(t, err, transportErr)
		assert.Len(t, transport.calls, 1)
		assert.Empty(t, sleeper.delays)
	})

	t.Run("HeadersReappliedEveryAttempt", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 429, Body: []byte("slow down")}},
				{resp: &Response{StatusCode: 200, Body: []byte("ok")}},
			},
		}
		headers := map[string]string{
			"Authorization": "Bearer token",
			"User-Agent":    "esplora-test",
		}
		client, _ := newMockClient(t, transport, WithHeaders(headers))

		_, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.NoError(t, err)
		require.Len(t, transport.calls, 2)
		for _, call := range transport.calls {
			assert.Equal(t, headers, call.headers)
		}
	})

	t.Run("ZeroRetriesReturnsFirstResponse", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 503, Body: []byte("overloaded")}},
			},
		}
		client, sleeper := newMockClient(t, transport, WithMaxRetries(0))

		resp, err := client.getWithRetry(context.Background(), client.url+"/test")
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Len(t, transport.calls, 1)
		assert.Empty(t, sleeper.delays)
	})
}

func TestCheckStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, checkStatus(&Response{StatusCode: 200}))
		assert.NoError(t, checkStatus(&Response{StatusCode: 299}))
	})

	t.Run("ErrorWithTextBody", func(t *testing.T) {
		err := checkStatus(&Response{StatusCode: 400, Body: []byte("bad request")})
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.StatusCode)
		assert.Equal(t, "bad request", httpErr.Message)
	})

	t.Run("ErrorWithBinaryBody", func(t *testing.T) {
		err := checkStatus(&Response{StatusCode: 500, Body: []byte{0xff, 0xfe}})
		require.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestOptionalDecoders(t *testing.T) {
	decoders := []struct {
		name string
		call func(ctx context.Context, c *Client) (bool, error)
	}{
		{
			name: "Consensus",
			call: func(ctx context.Context, c *Client) (bool, error) {
				var tx wire.MsgTx
				return c.getOptResponse(ctx, "/test", &tx)
			},
		},
		{
			name: "Hex",
			call: func(ctx context.Context, c *Client) (bool, error) {
				var header wire.BlockHeader
				return c.getOptResponseHex(ctx, "/test", &header)
			},
		},
		{
			name: "JSON",
			call: func(ctx context.Context, c *Client) (bool, error) {
				var target map[string]any
				return c.getOptResponseJSON(ctx, "/test", &target)
			},
		},
		{
			name: "Text",
			call: func(ctx context.Context, c *Client) (bool, error) {
				_, found, err := c.getOptResponseText(ctx, "/test")
				return found, err
			},
		},
	}

	for _, decoder := range decoders {
		t.Run(decoder.name+"/NotFoundIsAbsent", func(t *testing.T) {
			transport := &mockTransport{
				steps: []mockStep{
					{resp: &Response{StatusCode: 404, Body: []byte("not found")}},
				},
			}
			client, _ := newMockClient(t, transport)
			found, err := decoder.call(context.Background(), client)
			require.NoError(t, err)
			assert.False(t, found)
		})

		t.Run(decoder.name+"/ServerErrorPropagates", func(t *testing.T) {
			transport := &mockTransport{
				steps: []mockStep{
					{resp: &Response{StatusCode: 500, Body: []byte("boom")}},
				},
			}
			client, _ := newMockClient(t, transport, WithMaxRetries(0))
			_, err := decoder.call(context.Background(), client)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, 500, httpErr.StatusCode)
			assert.Equal(t, "boom", httpErr.Message)
		})
	}
}

func TestDecoderFailureModes(t *testing.T) {
	t.Run("ConsensusDecodeError", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 200, Body: []byte{0x01, 0x02}}},
			},
		}
		client, _ := newMockClient(t, transport)
		var tx wire.MsgTx
		err := client.getResponse(context.Background(), "/test", &tx)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "consensus", decodeErr.Encoding)
	})

	t.Run("MalformedHex", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 200, Body: []byte("not hex!")}},
			},
		}
		client, _ := newMockClient(t, transport)
		var header wire.BlockHeader
		err := client.getResponseHex(context.Background(), "/test", &header)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "hex", decodeErr.Encoding)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 200, Body: []byte("{not json")}},
			},
		}
		client, _ := newMockClient(t, transport)
		var target map[string]any
		err := client.getResponseJSON(context.Background(), "/test", &target)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "json", decodeErr.Encoding)
	})

	t.Run("NonTextBodyForText", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 200, Body: []byte{0xff, 0xfe}}},
			},
		}
		client, _ := newMockClient(t, transport)
		_, err := client.getResponseText(context.Background(), "/test")
		require.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestPostRequestHex(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 200, Body: []byte("txid")}},
			},
		}
		client, _ := newMockClient(t, transport)
		tx := testTx()

		require.NoError(t, client.BroadcastTx(context.Background(), tx))

		require.Len(t, transport.calls, 1)
		call := transport.calls[0]
		assert.Equal(t, "POST", call.method)
		assert.Equal(t, "http://esplora.test/tx", call.url)

		// Decode the posted body as an external peer would and verify we
		// get the same transaction back
		raw, err := hex.DecodeString(string(call.body))
		require.NoError(t, err)
		var decoded wire.MsgTx
		require.NoError(
			t,
			decoded.BtcDecode(bytes.NewReader(raw), 0, wire.WitnessEncoding),
		)
		assert.Equal(t, tx.TxHash(), decoded.TxHash())
	})

	t.Run("ServerError", func(t *testing.T) {
		transport := &mockTransport{
			steps: []mockStep{
				{resp: &Response{StatusCode: 400, Body: []byte("bad tx")}},
			},
		}
		client, _ := newMockClient(t, transport)

		err := client.BroadcastTx(context.Background(), testTx())
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.StatusCode)
		assert.Equal(t, "bad tx", httpErr.Message)
	})

	t.Run("TransportError", func(t *testing.T) {
		transportErr := errors.New("connection reset")
		transport := &mockTransport{
			steps: []mockStep{
				{err: transportErr},
			},
		}
		client, _ := newMockClient(t, transport)

		err := client.BroadcastTx(context.Background(), testTx())
		require.ErrorIs(t, err, transportErr)
	})
}
