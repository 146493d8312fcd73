package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	t.Run("writes indented json", func(t *testing.T) {
		var out, errOut bytes.Buffer

		err := WriteWith(&out, &errOut, map[string]string{"status": "ok"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"ok"}`, out.String())
		assert.Empty(t, errOut.String())
	})

	t.Run("marshal failure keeps stdout clean", func(t *testing.T) {
		var out, errOut bytes.Buffer

		err := WriteWith(&out, &errOut, func() {})
		require.NoError(t, err)
		assert.Empty(t, out.String(), "primary stream must stay parseable")

		var body ErrorBody
		require.NoError(t, json.Unmarshal(errOut.Bytes(), &body))
		assert.Equal(t, "marshal output", body.Error)
		assert.NotEmpty(t, body.Message)
	})
}

func TestMarshalError(t *testing.T) {
	var body ErrorBody
	require.NoError(t, json.Unmarshal([]byte(MarshalError("backend unreachable", "connection refused")), &body))
	assert.Equal(t, "backend unreachable", body.Error)
	assert.Equal(t, "connection refused", body.Message)
}
