// Package wstransport provides a [jrpcclient.Transport] over a single
// WebSocket connection.
//
// All calls share one socket, so concurrent calls are multiplexed: each
// request carries the id the transport allocated for it, a background read
// loop routes every incoming response to the pending call with the matching
// id.
//
//	call-1 ──Send(id=1)──┐
//	call-2 ──Send(id=2)──┼──→ one socket ──→ server
//	call-3 ──Send(id=3)──┘
//
//	readLoop: ←── response(id=2) → pending[2] ← call-2 resolves
package wstransport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
	"github.com/kytnacode/go-jrpc-client/internal/jsonutil"
)

// ErrClosed is resolved into pending and future sends once the connection is
// gone. The cause that broke the connection is wrapped.
var ErrClosed = errors.New("websocket transport closed")

// Transport is a WebSocket transport. Create one with [Dial] and release it
// with [Transport.Close].
//
// Is safe for concurrent use.
type Transport struct {
	conn *websocket.Conn
	log  zerolog.Logger

	seq atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan jrpcclient.SendResult
	closed  bool
	cause   error // Why the connection is gone, set when closed.
}

// Option configures a [Transport].
type Option func(*Transport)

// WithLogger sets the logger used for connection tracing. Defaults to a
// no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) { t.log = log }
}

// Dial connects to a JSON-RPC endpoint at url and starts the read loop. ctx
// only bounds the dial itself.
func Dial(ctx context.Context, url string, opts ...Option) (*Transport, error) {
	t := &Transport{
		pending: make(map[uint64]chan jrpcclient.SendResult),
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.log = t.log.With().Str("transport", xid.New().String()).Str("url", url).Logger()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %v: %w", url, err)
	}

	t.conn = conn

	go t.readLoop()

	return t, nil
}

// NextID implements [jrpcclient.Transport]. Ids are allocated from 1.
func (t *Transport) NextID() uint64 {
	return t.seq.Add(1)
}

// Send implements [jrpcclient.Transport]. The request's own envelope id is
// the correlation key, so data must carry a numeric id; requests built by
// the client core always do.
func (t *Transport) Send(data []byte) <-chan jrpcclient.SendResult {
	ch := make(chan jrpcclient.SendResult, 1)

	id, err := jsonutil.EnvelopeID(data)
	if err != nil {
		ch <- jrpcclient.SendResult{Err: fmt.Errorf("request carries no usable id: %w", err)}

		return ch
	}

	// Register before writing so the read loop can never win the race.
	t.mu.Lock()
	if t.closed {
		cause := t.cause
		t.mu.Unlock()

		ch <- jrpcclient.SendResult{Err: fmt.Errorf("%w: %w", ErrClosed, cause)}

		return ch
	}
	t.pending[id] = ch
	t.mu.Unlock()

	if err := t.conn.Write(context.Background(), websocket.MessageText, data); err != nil {
		// failAll may have resolved the call while the write was in flight,
		// only report the write failure when the entry was still ours to
		// remove. Resolving twice would overrun ch's single buffer slot.
		t.mu.Lock()
		_, mine := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()

		if mine {
			ch <- jrpcclient.SendResult{Err: fmt.Errorf("failed to write frame: %w", err)}
		}
	}

	return ch
}

// Close closes the connection. Pending calls resolve with [ErrClosed].
func (t *Transport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "")
}

// readLoop reads frames until the connection breaks and routes each response
// to the pending call with the matching id. A single reader keeps frame
// order intact; responses may resolve pending calls in any order.
func (t *Transport) readLoop() {
	for {
		_, data, err := t.conn.Read(context.Background())
		if err != nil {
			t.failAll(err)

			return
		}

		id, err := jsonutil.EnvelopeID(data)
		if err != nil {
			t.log.Warn().Err(err).Msg("discarding frame without usable id")

			continue
		}

		t.mu.Lock()
		ch, ok := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()

		if !ok {
			t.log.Warn().Uint64("id", id).Msg("discarding response for unknown call")

			continue
		}

		ch <- jrpcclient.SendResult{Data: data}
	}
}

// failAll marks the transport closed and resolves every pending call with
// the connection error.
func (t *Transport) failAll(cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.cause = cause

	for id, ch := range t.pending {
		ch <- jrpcclient.SendResult{Err: fmt.Errorf("%w: %w", ErrClosed, cause)}
		delete(t.pending, id)
	}
}
