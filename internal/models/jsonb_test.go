package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBValueAndScan(t *testing.T) {
	in := JSONB{"name": "Acme", "count": float64(3)}

	raw, err := in.Value()
	require.NoError(t, err)

	var out JSONB
	require.NoError(t, out.Scan(raw))
	assert.Equal(t, in, out)

	// Some drivers hand back strings instead of byte slices
	var fromString JSONB
	require.NoError(t, fromString.Scan(`{"k":"v"}`))
	assert.Equal(t, JSONB{"k": "v"}, fromString)
}

func TestJSONBNil(t *testing.T) {
	var j JSONB
	raw, err := j.Value()
	require.NoError(t, err)
	assert.Nil(t, raw)

	var out JSONB
	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)

	assert.Error(t, out.Scan(42))
}
