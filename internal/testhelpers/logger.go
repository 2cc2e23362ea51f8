package testhelpers

import (
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
)

// NewTestLogger returns a debug-level JSON logger, or a no-op logger if
// construction fails.
func NewTestLogger() infralogger.Logger {
	log, err := infralogger.New(infralogger.Config{
		Level:       "debug",
		Format:      infralogger.FormatJSON,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return infralogger.NewNop()
	}
	return log
}
