// Package logging builds the zap logger the backend shares.
//
// Two encodings:
//   - Production: JSON lines with ISO8601 timestamps
//   - Development (LOG_DEV=true or -dev): colored console output
//
// Subsystems take a named child so every line says where it came from:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	vfsLog := logger.Component("vfs")      // "logger":"vfs"
//	vfsLog.Warn("Failed to persist tree", zap.Error(err))
//
// Shell console lines forwarded through POST /logs arrive under "ui" and
// finished request spans under "trace".
package logging
