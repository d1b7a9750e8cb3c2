package main

import (
	"log"
	"os"
	"syscall"

	"github.com/mtlprog/leadflow/internal/launcher"
)

// Environment-driven entrypoint: resolves HOST and PORT, then replaces the
// current process image with the leadflow server. No flags, no supervision,
// no restart; after a successful exec the server owns the process.
func main() {
	cfg := launcher.FromEnv(os.Getenv)

	program := os.Getenv("LEADFLOW_SERVER")
	if program == "" {
		program = launcher.DefaultServerProgram
	}

	path, argv, err := launcher.Command(program, cfg)
	if err != nil {
		log.Fatalf("launcher: %v", err)
	}

	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		log.Fatalf("launcher: exec %s: %v", path, err)
	}
}
