package testing

import "time"

// Logger Constants
// These constants define common logger configurations used across test files.
const (
	// TestLoggerLevelDebug is the debug log level
	TestLoggerLevelDebug = "debug"
	// TestLoggerLevelError is the error log level for tests requiring minimal output
	TestLoggerLevelError = "error"
	// TestLoggerLevelDisabled completely disables logging in tests
	TestLoggerLevelDisabled = "disabled"
)

// Service Constants
const (
	TestServiceName = "noclist-test"
	TestVersion     = "v0.0.0-test"
)

// Timing Constants
const (
	// TestAttemptTimeout bounds a single attempt against an in-process server
	TestAttemptTimeout = 2 * time.Second
)
