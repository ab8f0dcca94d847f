// Package params implements the argument-to-params mapping for JSON-RPC
// requests: it turns an arbitrary serializable argument value into either a
// positional array, a named object, or no params at all.
package params

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kytnacode/go-jrpc-client/internal/jsonutil"
)

// ErrInvalidParams is returned when an error occurs while serializing the
// arguments.
var ErrInvalidParams = errors.New("invalid params")

// Marshal serializes args and maps the serialized value to a params field:
//
//   - JSON null: no params, returns nil (no-argument call).
//   - JSON array: used verbatim as positional params.
//   - JSON object: used verbatim as named params.
//   - any other value: wrapped into a single-element positional array.
//
// On failure no partial value is returned.
func Marshal(args any) (*json.RawMessage, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize arguments: %w", err)
	}

	trimmed := jsonutil.TrimLeftWhitespace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("arguments serialized to empty JSON: %w", ErrInvalidParams)
	}

	// Classify on the leading byte: 'n' can only start the literal null.
	switch trimmed[0] {
	case 'n': // No-argument call, the params field is omitted entirely.
		return nil, nil
	case '[', '{': // Positional or named params, passed through verbatim.
		raw := json.RawMessage(trimmed)

		return &raw, nil
	}

	// Scalar: a single-element positional array.
	wrapped := make(json.RawMessage, 0, len(trimmed)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, trimmed...)
	wrapped = append(wrapped, ']')

	return &wrapped, nil
}
