//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a booking request body after it has been turned into a JSON map.
type Mutation func(m map[string]any)

// Field sets a top-level key; a nil value removes it.
func Field(key string, value any) Mutation {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// Response sets one booking-field answer under "responses"; a nil value removes it.
func Response(key string, value any) Mutation {
	return func(m map[string]any) {
		responses, ok := m["responses"].(map[string]any)
		if !ok {
			responses = map[string]any{}
			m["responses"] = responses
		}
		if value == nil {
			delete(responses, key)
			return
		}
		responses[key] = value
	}
}

// RequestMap renders v as the JSON object a client would send, then applies muts in order.
func RequestMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}
