package main

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no library, invalid paths)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitAuthError   = 4 // Remote authentication failure
	ExitCancelled   = 5 // User cancelled an interactive operation
)
