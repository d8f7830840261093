package config

import (
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-x", "/v1", "-S", "redis", "-d", "db",
				"-r", "redis:6379", "-w", "pw", "-n", "2", "-s", "secret", "-t", "15m",
				"-f", "console", "-l", "debug", "-m", "1024", "-i", "3", "-p", "2", "-g", "5s",
			},
			expected: &Config{
				HTTPAddr:        "127.0.0.1:9090",
				APIPrefix:       "/v1",
				Storage:         "redis",
				DatabaseDSN:     "db",
				RedisAddr:       "redis:6379",
				RedisPassword:   "pw",
				RedisDB:         2,
				SecretKey:       "secret",
				TokenTTL:        15 * time.Minute,
				Argon2:          cryptox.Argon2Params{Memory: 1024, Iterations: 3, Parallelism: 2},
				LogFormat:       "console",
				LogLevel:        "debug",
				ShutdownTimeout: 5 * time.Second,
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-unknown", "x", "-s", "k"},
			expected: &Config{SecretKey: "k"},
		},
		{
			name:     "argon2 limits fit",
			args:     []string{"-m", "4294967295", "-i", "4294967295", "-p", "255"},
			expected: &Config{Argon2: cryptox.Argon2Params{Memory: math.MaxUint32, Iterations: math.MaxUint32, Parallelism: math.MaxUint8}},
		},
		{
			name:    "argon2 parallelism overflows",
			args:    []string{"-p", "260"},
			wantErr: true,
		},
		{
			name:    "argon2 memory overflows",
			args:    []string{"-m", "4294967296"},
			wantErr: true,
		},
		{
			name:    "argon2 iterations overflow",
			args:    []string{"-i", "4294967296"},
			wantErr: true,
		},
		{
			name:    "bad int",
			args:    []string{"-n", "two"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			config := &Config{}
			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
