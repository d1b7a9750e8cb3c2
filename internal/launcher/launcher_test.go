package launcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/leadflow/internal/launcher"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantHost string
		wantPort string
	}{
		{
			name:     "unset variables fall back to defaults",
			env:      map[string]string{},
			wantHost: "0.0.0.0",
			wantPort: "8000",
		},
		{
			name:     "empty variables fall back to defaults",
			env:      map[string]string{"HOST": "", "PORT": ""},
			wantHost: "0.0.0.0",
			wantPort: "8000",
		},
		{
			name:     "explicit port",
			env:      map[string]string{"PORT": "9090"},
			wantHost: "0.0.0.0",
			wantPort: "9090",
		},
		{
			name:     "explicit host",
			env:      map[string]string{"HOST": "127.0.0.1"},
			wantHost: "127.0.0.1",
			wantPort: "8000",
		},
		{
			name:     "both explicit",
			env:      map[string]string{"HOST": "localhost", "PORT": "3000"},
			wantHost: "localhost",
			wantPort: "3000",
		},
		{
			// Invalid values are passed through uninterpreted; the server
			// rejects them on its own terms.
			name:     "non-numeric port passed through",
			env:      map[string]string{"PORT": "not-a-port"},
			wantHost: "0.0.0.0",
			wantPort: "not-a-port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := launcher.FromEnv(getenvFrom(tt.env))
			assert.Equal(t, tt.wantHost, cfg.Host)
			assert.Equal(t, tt.wantPort, cfg.Port)
		})
	}
}

func TestBuildArgv(t *testing.T) {
	cfg := launcher.Config{Host: "localhost", Port: "3000"}

	argv := launcher.BuildArgv("/usr/local/bin/leadflow", cfg)

	assert.Equal(t, []string{
		"/usr/local/bin/leadflow",
		"main:app",
		"--host", "localhost",
		"--port", "3000",
		"--log-level", "info",
		"--workers", "1",
	}, argv)
}

func TestBuildArgv_FixedArgumentsAlwaysPresent(t *testing.T) {
	configs := []launcher.Config{
		{Host: "0.0.0.0", Port: "8000"},
		{Host: "127.0.0.1", Port: "9090"},
		{Host: "::1", Port: "not-a-port"},
	}

	for _, cfg := range configs {
		argv := launcher.BuildArgv("leadflow", cfg)

		assert.Contains(t, argv, "--log-level")
		assert.Contains(t, argv, "info")
		assert.Contains(t, argv, "--workers")
		assert.Contains(t, argv, "1")
		assert.Equal(t, "main:app", argv[1])
	}
}

func TestCommand_ProgramNotFound(t *testing.T) {
	cfg := launcher.FromEnv(getenvFrom(nil))

	_, _, err := launcher.Command("leadflow-server-that-does-not-exist", cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "locate server program")
}
