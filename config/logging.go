package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogDir is where debug logs are written, relative to the working directory
const LogDir = "logs"

// SetupLogging routes the standard logger to logs/<tool>.log when debug is set
// and discards it otherwise; the returned file is nil when logging is off
func SetupLogging(debug bool, tool string) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(LogPath(tool), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	return f
}

// LogPath returns the debug log file of tool
func LogPath(tool string) string {
	return filepath.Join(LogDir, tool+".log")
}
