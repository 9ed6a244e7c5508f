package utils

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the process-wide logger
func SetupLogging(out io.Writer, verbose bool) {
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	SetVerbose(verbose)
}

// SetVerbose switches between info and debug level
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// IsVerbose reports whether debug logging is enabled
func IsVerbose() bool {
	return log.IsLevelEnabled(log.DebugLevel)
}
