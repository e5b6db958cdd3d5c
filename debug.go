package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	debugEnabled bool
	debugOnce    sync.Once
	debugLog     = logrus.New()
)

// EnableDebugLogging routes debug output to a log file under the temp dir.
// The TUI owns stdout, so nothing is ever written there.
func EnableDebugLogging(enabled bool) {
	debugEnabled = enabled
}

func DebugLogf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	debugOnce.Do(func() {
		debugLog.SetOutput(io.Discard)
		debugLog.SetLevel(logrus.DebugLevel)
		debugLog.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000",
		})
		path := filepath.Join(os.TempDir(), "tetanus-attack-debug.log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		debugLog.SetOutput(file)
	})
	format = strings.ReplaceAll(format, "\n", " ")
	debugLog.Debugf(format, args...)
}
