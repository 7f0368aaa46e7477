package v1

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestDecodeRecord_NumberKinds(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"a": 1, "b": 1.0, "c": 1e3, "d": "x", "e": null, "f": true, "g": -42}`))
	require.NoError(t, err)

	require.Equal(t, int64(1), rec["a"])
	require.Equal(t, float64(1), rec["b"])
	require.Equal(t, float64(1000), rec["c"])
	require.Equal(t, "x", rec["d"])
	require.Nil(t, rec["e"])
	require.True(t, rec.Has("e"))
	require.Equal(t, true, rec["f"])
	require.Equal(t, int64(-42), rec["g"])
}

func TestDecodeRecord_NestedValuesAreNormalized(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"tags": [1, 2.5], "meta": {"n": 3}}`))
	require.NoError(t, err)

	require.Equal(t, []interface{}{int64(1), 2.5}, rec["tags"])
	require.Equal(t, map[string]interface{}{"n": int64(3)}, rec["meta"])
}

func TestDecodeRecord_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `not json`},
		{name: "array", input: `[1, 2]`},
		{name: "null", input: `null`},
		{name: "trailing object", input: `{"a": 1} {"b": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestDecodeJSONL(t *testing.T) {
	input := "{\"a\": 1}\n\n   \n{\"a\": 2}\n"

	records, err := DecodeJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(2), records[1]["a"])
}

func TestDecodeJSONL_ReportsLineNumber(t *testing.T) {
	input := "{\"a\": 1}\n\n{broken\n"

	_, err := DecodeJSONL(strings.NewReader(input))
	require.Error(t, err)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	require.Equal(t, 3, lineErr.Line)
	require.Contains(t, err.Error(), "line 3")
}

func TestDecodeJSONL_ReadFailures(t *testing.T) {
	tests := []struct {
		name     string
		input    io.Reader
		wantErr  error
		wantLine int
	}{
		{
			name:     "reader fails mid stream",
			input:    io.MultiReader(strings.NewReader("{\"a\": 1}\n"), iotest.ErrReader(io.ErrUnexpectedEOF)),
			wantErr:  io.ErrUnexpectedEOF,
			wantLine: 1,
		},
		{
			name:     "partial last line before the failure",
			input:    io.MultiReader(strings.NewReader("{\"a\": 1}\n{\"a\": 2}\n{\"a\""), iotest.ErrReader(io.ErrUnexpectedEOF)),
			wantErr:  io.ErrUnexpectedEOF,
			wantLine: 2,
		},
		{
			name:     "line longer than the limit",
			input:    strings.NewReader("{\"a\": 1}\n" + strings.Repeat("x", maxLineBytes+1) + "\n"),
			wantErr:  bufio.ErrTooLong,
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSONL(tt.input)
			require.ErrorIs(t, err, tt.wantErr)

			var readErr *ReadError
			require.True(t, errors.As(err, &readErr))
			require.Equal(t, tt.wantLine, readErr.Line)

			var lineErr *LineError
			require.False(t, errors.As(err, &lineErr))
		})
	}
}
