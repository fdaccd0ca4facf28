// Package logger provides a structured logging facility based on Zap.
//
// Development configuration is used at debug level, production configuration
// otherwise. Output is console or json encoded and written to stderr so that
// command output on stdout stays clean.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	zap.ReplaceGlobals(log)
//
//	l := logger.ForSector(log, "photos", "disk-a")
//	l.Info("Indexed media", zap.Int("files", 120))
package logger
