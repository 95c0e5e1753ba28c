package shortcode

import (
	"testing"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, CodeRegexp.MatchString(code),
			"generated code expected to be base58 encoded: %q", code)
		seen[code] = struct{}{}
	}
	// 100 draws from a 58^8 space must not collide.
	assert.Len(t, seen, 100)
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate()
	}
}

func TestResolvable(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		want    bool
	}{
		{name: "generated code shape", segment: "TZqSKV4t", want: true},
		{name: "alias shape", segment: "my-link_1", want: true},
		{name: "too short", segment: "ab", want: false},
		{name: "invalid characters", segment: "a!b", want: false},
		{name: "too long", segment: "a12345678901234567890", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolvable(tt.segment))
		})
	}
}

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		wantErr bool
	}{
		{name: "simple", alias: "simple"},
		{name: "with digits", alias: "promo2024"},
		{name: "with punctuation", alias: "my-link_1"},
		{name: "minimal length", alias: "abc"},
		{name: "maximal length", alias: "a1234567890123456789"},
		{name: "empty", alias: "", wantErr: true},
		{name: "too short", alias: "ab", wantErr: true},
		{name: "too long", alias: "a12345678901234567890", wantErr: true},
		{name: "invalid characters", alias: "with space", wantErr: true},
		{name: "path traversal", alias: "../etc", wantErr: true},
		{name: "reserved api", alias: "api", wantErr: true},
		{name: "reserved ping", alias: "ping", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlias(tt.alias)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrInvalidAlias)
				return
			}
			assert.NoError(t, err)
		})
	}
}
