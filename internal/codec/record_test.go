package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRecord(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "plain fields", fields: []string{"u1", "Demo", "1234", "0"}, want: "u1,Demo,1234,0"},
		{name: "field with delimiter", fields: []string{"u2", "Doe, Jane", "1", "2.5"}, want: `u2,"Doe, Jane",1,2.5`},
		{name: "field with quote", fields: []string{`say "hi"`, "x"}, want: `"say ""hi""",x`},
		{name: "field that is only a quote", fields: []string{`"`}, want: `""""`},
		{name: "empty middle field", fields: []string{"a", "", "c"}, want: "a,,c"},
		{name: "empty last field", fields: []string{"a", ""}, want: "a,"},
		{name: "single empty field", fields: []string{""}, want: `""`},
		{name: "leading space", fields: []string{" 5678", "x"}, want: `" 5678",x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := EncodeRecord(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)

			got, err := DecodeRecord(line)
			require.NoError(t, err)
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestEncodeRecord_Rejects(t *testing.T) {
	_, err := EncodeRecord(nil)
	assert.ErrorIs(t, err, ErrUnencodable)

	_, err = EncodeRecord([]string{"a\nb"})
	assert.ErrorIs(t, err, ErrUnencodable)

	_, err = EncodeRecord([]string{"a", "b\r"})
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestDecodeRecord_Malformed(t *testing.T) {
	for _, line := range []string{"", "   "} {
		_, err := DecodeRecord(line)
		assert.ErrorIs(t, err, ErrMalformedRecord, "line %q", line)
	}
}

func TestDecodeRecord_BareQuotes(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: `a"b,c`, want: []string{`a"b`, "c"}},
		{line: `u2,O"Brien,9999,50`, want: []string{"u2", `O"Brien`, "9999", "50"}},
		{line: `u3,Ana,12"34,0`, want: []string{"u3", "Ana", `12"34`, "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := DecodeRecord(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Re-encoding quotes properly and reads back the same fields.
			line, err := EncodeRecord(got)
			require.NoError(t, err)
			again, err := DecodeRecord(line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, again)
		})
	}
}

func TestDecodeFields_TooFew(t *testing.T) {
	_, err := DecodeFields("u1,Demo,1234", 4)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	fields, err := DecodeFields("u1,Demo,1234,10,extra", 4)
	require.NoError(t, err)
	assert.Len(t, fields, 5)
}
