// Package test provides scriptable fake transports shared by the package
// tests.
package test

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
)

// Transport is a scriptable in-memory transport. The zero value allocates
// ids from 1 and never resolves its send operations; set Respond to script
// responses, or NextIDFunc to control id allocation.
//
// Is safe for concurrent use.
type Transport struct {
	// NextIDFunc overrides id allocation. Defaults to a counter starting at 1.
	NextIDFunc func() uint64

	// Respond builds the outcome of a send from the request bytes. When nil,
	// send operations stay pending forever.
	Respond func(data []byte) ([]byte, error)

	seq atomic.Uint64

	mu   sync.Mutex
	sent [][]byte
}

func (t *Transport) NextID() uint64 {
	if t.NextIDFunc != nil {
		return t.NextIDFunc()
	}

	return t.seq.Add(1)
}

func (t *Transport) Send(data []byte) <-chan jrpcclient.SendResult {
	t.mu.Lock()
	t.sent = append(t.sent, data)
	t.mu.Unlock()

	ch := make(chan jrpcclient.SendResult, 1)

	if t.Respond != nil {
		resp, err := t.Respond(data)
		ch <- jrpcclient.SendResult{Data: resp, Err: err}
	}

	return ch
}

// Sent returns a copy of every byte buffer handed to Send, in order.
func (t *Transport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	sent := make([][]byte, len(t.sent))
	copy(sent, t.sent)

	return sent
}

// Echo creates a transport that answers every request with a success
// envelope whose result is the decoded request itself, always under id 1.
func Echo() *Transport {
	return &Transport{
		NextIDFunc: func() uint64 { return 1 },
		Respond: func(data []byte) ([]byte, error) {
			var req json.RawMessage
			if err := json.Unmarshal(data, &req); err != nil {
				return nil, fmt.Errorf("echo transport received invalid request: %w", err)
			}

			return json.Marshal(map[string]any{
				"jsonrpc": "2.0",
				"id":      1,
				"result":  req,
			})
		},
	}
}

// RPCError creates a transport that answers every request with the given
// JSON-RPC error object, always under id 1. data must be valid JSON or
// empty.
func RPCError(code int, message, data string) *Transport {
	return &Transport{
		NextIDFunc: func() uint64 { return 1 },
		Respond: func(_ []byte) ([]byte, error) {
			errObj := map[string]any{
				"code":    code,
				"message": message,
			}
			if data != "" {
				errObj["data"] = json.RawMessage(data)
			}

			return json.Marshal(map[string]any{
				"jsonrpc": "2.0",
				"id":      1,
				"error":   errObj,
			})
		},
	}
}

// Failing creates a transport whose send operations always resolve with err.
func Failing(err error) *Transport {
	return &Transport{
		Respond: func(_ []byte) ([]byte, error) { return nil, err },
	}
}

// Canned creates a transport that answers every request with exactly resp.
func Canned(resp string) *Transport {
	return &Transport{
		Respond: func(_ []byte) ([]byte, error) { return []byte(resp), nil },
	}
}
