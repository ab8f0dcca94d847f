package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoID is returned when an envelope carries no id, or a null one.
var ErrNoID = errors.New("envelope carries no id")

// EnvelopeID extracts the numeric id of a serialized JSON-RPC envelope
// without decoding the rest of it. Transports that correlate concurrent
// calls use it on both the outgoing request and the incoming response.
func EnvelopeID(data []byte) (uint64, error) {
	var env struct {
		ID *json.Number `json:"id"`
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("failed to decode envelope: %w", err)
	}

	if env.ID == nil {
		return 0, ErrNoID
	}

	id, err := strconv.ParseUint(env.ID.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("envelope id %s is not numeric: %w", env.ID.String(), err)
	}

	return id, nil
}
