package jrpcclient

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Response represents a JSON-RPC response.
type Response struct {
	JSONRPC string           `json:"jsonrpc,omitempty"` // Must be "2.0".
	Result  *json.RawMessage `json:"result,omitempty"`  // The result of the call, must not be nil on success.
	Error   *Error           `json:"error,omitempty"`   // The error of the call, must not be nil on failure.
	ID      *json.Number     `json:"id"`                // The request identifier, must match the request on success.
}

// decodeResponse parses data as a response envelope to the request with
// expectedID and deserializes its result into dest.
//
// A malformed envelope fails with a [ResponseError] naming the violated
// expectation. An envelope carrying an error object fails with that object as
// an [*Error], without checking the id: servers answer with a null id when
// they could not read the request, and that answer is still theirs to report.
// An envelope carrying a result is only decoded when its id equals
// expectedID; on a single-call transport operation a result for any other id
// means the transport broke its correlation contract, so it is rejected
// rather than silently handed to the wrong caller.
func decodeResponse(data []byte, expectedID uint64, dest any) error {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return &ResponseError{Reason: "response is not valid JSON", Err: err}
	}

	if resp.JSONRPC != "" && resp.JSONRPC != JSONRPCVersion {
		return &ResponseError{Reason: fmt.Sprintf("unsupported protocol version %q", resp.JSONRPC)}
	}

	if resp.Error != nil && resp.Result != nil {
		return &ResponseError{Reason: "response carries both result and error"}
	}

	if resp.Error != nil {
		return resp.Error
	}

	if resp.Result == nil {
		return &ResponseError{Reason: "response carries neither result nor error"}
	}

	if resp.ID == nil {
		return &ResponseError{Reason: fmt.Sprintf("result response carries no id, want %d", expectedID)}
	}

	id, err := strconv.ParseUint(resp.ID.String(), 10, 64)
	if err != nil || id != expectedID {
		return &ResponseError{
			Reason: fmt.Sprintf("response id %s does not match request id %d", resp.ID.String(), expectedID),
		}
	}

	if dest == nil {
		return nil
	}

	if err := json.Unmarshal(*resp.Result, dest); err != nil {
		return &ResponseError{Reason: "result does not match the expected type", Err: err}
	}

	return nil
}
