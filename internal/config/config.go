package config

const (
	// DefaultHost is the default bind address.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default HTTP server port.
	DefaultPort = "8000"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// AppTarget is the application identifier the server expects to load.
	// The launcher passes it as the first positional argument.
	AppTarget = "main:app"
)
