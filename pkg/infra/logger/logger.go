package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide structured logger: JSON lines to
// stdout and, when dir is non-empty, to an appended log file.
func NewLogger(dir string) *logrus.Logger {
	l := logrus.New()

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	if os.Getenv("LOG_LEVEL") == "debug" {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	if dir == "" {
		return l
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	path := filepath.Join(dir, "firewall.log")
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}

	l.SetOutput(io.MultiWriter(os.Stdout, file))
	return l
}
