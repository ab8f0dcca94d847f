// Package localtransport provides an in-process [jrpcclient.Transport] that
// dispatches requests to registered handler functions. It is meant for tests
// and for wiring a client against a service living in the same process,
// without sockets or serialization round trips beyond the wire format
// itself.
package localtransport

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	jrpcclient "github.com/kytnacode/go-jrpc-client"
)

// HandlerFunc handles one method call. params is nil when the request
// carried no params field. Returning a non-nil *jrpcclient.Error produces an
// error envelope; otherwise the returned value is serialized as the result.
type HandlerFunc func(params *json.RawMessage) (any, *jrpcclient.Error)

// Transport is an in-process transport. Create one with [New], register
// methods with [Transport.Handle], then hand it to the client core.
//
// Is safe for concurrent use; each call runs its handler in its own
// goroutine.
type Transport struct {
	seq      atomic.Uint64
	handlers sync.Map // map[string]HandlerFunc
}

// New creates an empty in-process transport.
func New() *Transport {
	return &Transport{}
}

// Handle registers the handler for a method, replacing any previous one.
func (t *Transport) Handle(method string, fn HandlerFunc) {
	t.handlers.Store(method, fn)
}

// NextID implements [jrpcclient.Transport]. Ids are allocated from 1.
func (t *Transport) NextID() uint64 {
	return t.seq.Add(1)
}

// Send implements [jrpcclient.Transport]. The request is dispatched on a new
// goroutine and the returned channel resolves with the serialized response
// envelope.
func (t *Transport) Send(data []byte) <-chan jrpcclient.SendResult {
	ch := make(chan jrpcclient.SendResult, 1)

	go func() {
		resp, err := t.roundTrip(data)
		ch <- jrpcclient.SendResult{Data: resp, Err: err}
	}()

	return ch
}

// roundTrip decodes one request, runs its handler, and encodes the response
// envelope. Malformed requests and unknown methods answer with the standard
// JSON-RPC error codes rather than a transport failure.
func (t *Transport) roundTrip(data []byte) ([]byte, error) {
	var req jrpcclient.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(nil, &jrpcclient.Error{
			Code:    jrpcclient.ParseError,
			Message: "failed to parse request: " + err.Error(),
		})
	}

	id := req.ID

	handler, ok := t.handlers.Load(req.Method)
	if !ok {
		return errorResponse(&id, &jrpcclient.Error{
			Code:    jrpcclient.MethodNotFound,
			Message: "method " + req.Method + " not found",
		})
	}

	result, rpcErr := handler.(HandlerFunc)(req.Params)
	if rpcErr != nil {
		return errorResponse(&id, rpcErr)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return errorResponse(&id, &jrpcclient.Error{
			Code:    jrpcclient.InternalError,
			Message: "failed to serialize result: " + err.Error(),
		})
	}

	resp := jrpcclient.Response{
		JSONRPC: jrpcclient.JSONRPCVersion,
		Result:  (*json.RawMessage)(&raw),
		ID:      &id,
	}

	return json.Marshal(resp)
}

func errorResponse(id *json.Number, rpcErr *jrpcclient.Error) ([]byte, error) {
	resp := jrpcclient.Response{
		JSONRPC: jrpcclient.JSONRPCVersion,
		Error:   rpcErr,
		ID:      id,
	}

	return json.Marshal(resp)
}
