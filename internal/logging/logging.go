package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the service logger: JSON lines with severity and timestamp keys.
func New(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.Out = out
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Level = logrus.InfoLevel
		log.WithField("level", level).Warn("unknown log level, using info")
		return log
	}
	log.Level = lvl
	return log
}
