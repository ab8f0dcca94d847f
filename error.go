package jrpcclient

import (
	"encoding/json"
	"fmt"
)

const (
	ParseError     = -32700 // Parse error. Invalid JSON was received by the server.
	InvalidRequest = -32600 // Invalid Request. The JSON sent is not a valid Request object.
	MethodNotFound = -32601 // Method not found. The method does not exist / is not available.
	InvalidParams  = -32602 // Invalid params. Invalid method parameter(s).
	InternalError  = -32603 // Internal error. Internal JSON-RPC error.
)

// Every failure surfaced by this package is exactly one of four kinds, all
// implementing error: [TransportError], [SerializeError], [ResponseError] and
// [Error]. Callers discriminate with errors.As:
//
//	_, err := call.Wait(ctx)
//
//	var rpcErr *jrpcclient.Error
//	if errors.As(err, &rpcErr) {
//	    // The server answered with a JSON-RPC error object.
//	}

// TransportError reports that the underlying transport failed to deliver the
// request or its response. The transport-specific cause is available through
// errors.Unwrap.
type TransportError struct {
	Err error // The transport's own error.
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unable to send the JSON-RPC request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializeError reports that the method arguments could not be turned into
// wire bytes. No request was sent to the transport.
type SerializeError struct {
	Err error // The underlying serialization failure.
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("unable to serialize the method parameters: %v", e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// ResponseError reports that bytes were received but did not form a
// well-formed, expected JSON-RPC response: invalid JSON, a structurally
// invalid envelope, a response for another call's id, or a result that does
// not deserialize into the expected type. Reason names the violated
// expectation.
type ResponseError struct {
	Reason string // Which structural expectation was violated.
	Err    error  // The underlying decode failure, may be nil.
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to deserialize the response: %s: %v", e.Reason, e.Err)
	}

	return "unable to deserialize the response: " + e.Reason
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Error represents a JSON-RPC error object, reported by the remote method.
// Receiving one is not a client bug: the request was replied to, but with an
// application-level failure.
type Error struct {
	// A number indicating the error type that occurred.
	// This MUST be an integer.
	// The error codes from and including -32768 to -32000 are reserved for pre-defined errors.
	Code    int             `json:"code"`
	Message string          `json:"message"`        // A string providing a short description of the error.
	Data    json.RawMessage `json:"data,omitempty"` // A Primitive or Structured value that contains additional information about the error.
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}
