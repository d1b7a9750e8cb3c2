// Package launcher resolves bind parameters from the process environment and
// builds the invocation of the leadflow server process. The launcher binary
// replaces its own process image with that invocation; nothing here stays
// resident after a successful exec.
package launcher

import (
	"fmt"
	"os/exec"
)

const (
	// DefaultServerProgram is the server binary resolved on PATH.
	DefaultServerProgram = "leadflow"

	// AppTarget names the application object the server should load.
	AppTarget = "main:app"

	// Log level and worker count are fixed; the server surface accepts them
	// but the launcher offers no override.
	logLevel = "info"
	workers  = "1"
)

// Config holds the two environment-derived bind parameters. Values are
// strings passed through uninterpreted; the server validates them.
type Config struct {
	Host string
	Port string
}

// FromEnv resolves Host and Port using the given lookup function,
// applying defaults when a variable is unset or empty.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Host: getenv("HOST"),
		Port: getenv("PORT"),
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	return cfg
}

// BuildArgv constructs the complete argument vector for the server process:
// the program itself, the application target, and the derived flags.
func BuildArgv(program string, cfg Config) []string {
	return []string{
		program,
		AppTarget,
		"--host", cfg.Host,
		"--port", cfg.Port,
		"--log-level", logLevel,
		"--workers", workers,
	}
}

// Command locates the server program on PATH and returns its resolved path
// together with the argument vector to exec.
func Command(program string, cfg Config) (string, []string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return "", nil, fmt.Errorf("locate server program %q: %w", program, err)
	}
	return path, BuildArgv(path, cfg), nil
}
