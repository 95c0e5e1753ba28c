package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"host and port", "localhost:8080", "localhost:8080", false},
		{"port only", ":9090", "0.0.0.0:9090", false},
		{"http prefix", "http://localhost:8080", "localhost:8080", false},
		{"missing port", "localhost", "", true},
		{"non-numeric port", "localhost:abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Server.RunAddress.String())
	assert.Equal(t, DefaultAddress, cfg.Server.ReturnAddress.String())
	assert.Positive(t, cfg.Redis.TTL)
	assert.Positive(t, cfg.Service.GenerateRetries)
	assert.Positive(t, cfg.Service.CounterBufLen)
}
