package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name       string
		serverAddr string
		busBackend string
		redisAddr  string
		natsURL    string
		wantErr    string
	}{
		{
			name:       "valid redis config",
			serverAddr: "localhost:8000",
			busBackend: BusRedis,
			redisAddr:  "localhost:6379",
		},
		{
			name:       "valid nats config",
			serverAddr: "localhost:8000",
			busBackend: BusNATS,
			natsURL:    "nats://localhost:4222",
		},
		{
			name:       "valid memory config",
			serverAddr: "localhost:8000",
			busBackend: BusMemory,
		},
		{
			name:       "empty server address",
			busBackend: BusMemory,
			wantErr:    "server address cannot be empty",
		},
		{
			name:       "redis bus without address",
			serverAddr: "localhost:8000",
			busBackend: BusRedis,
			wantErr:    "redis address cannot be empty",
		},
		{
			name:       "nats bus without url",
			serverAddr: "localhost:8000",
			busBackend: BusNATS,
			wantErr:    "nats url cannot be empty",
		},
		{
			name:       "unknown backend",
			serverAddr: "localhost:8000",
			busBackend: "kafka",
			wantErr:    "unknown bus backend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.serverAddr, tc.busBackend, tc.redisAddr, tc.natsURL, "", nil)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, cfg)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.serverAddr, cfg.ServerAddr)
			assert.Equal(t, tc.busBackend, cfg.BusBackend)
			assert.Equal(t, "chat:", cfg.ChannelPrefix, "expected empty prefix to default")
		})
	}
}
