package jrpcclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kytnacode/go-jrpc-client/params"
)

// JSONRPCVersion is the protocol version carried by every request and
// expected in every response.
const JSONRPCVersion = "2.0"

// ErrEmptyMethod is returned, wrapped in a [SerializeError], when a call is
// dispatched with an empty method name.
var ErrEmptyMethod = errors.New("method name must not be empty")

// Request represents a JSON-RPC request.
type Request struct {
	JSONRPC string           `json:"jsonrpc"`          // Must be "2.0".
	Method  string           `json:"method"`           // The method to be invoked.
	Params  *json.RawMessage `json:"params,omitempty"` // The parameters to use, omitted on no-argument calls, must be an array or object.

	// The request identifier, must match the response identifier. Always
	// present: requests sent through this package are never notifications.
	ID json.Number `json:"id"`
}

// encodeRequest builds the request envelope for one call and serializes it to
// wire bytes. args go through the params mapping rule, see [params.Marshal].
// On failure no partial bytes are returned.
func encodeRequest(id uint64, method string, args any) ([]byte, error) {
	if method == "" {
		return nil, ErrEmptyMethod
	}

	p, err := params.Marshal(args)
	if err != nil {
		return nil, err
	}

	req := Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  p,
		ID:      json.Number(strconv.FormatUint(id, 10)),
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request envelope: %w", err)
	}

	return data, nil
}
