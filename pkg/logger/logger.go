// Package logger provides logging setup for the domain monitor application
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger. Debug output is enabled
// by setting the DEBUG environment variable to "true".
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
