package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/odvcencio/twig/pkg/config"
)

// newLogger writes JSON lines to a rotated file at path. verbose adds a
// human-readable copy of every entry on stderr at debug level.
func newLogger(path string, cfg *config.Config, verbose bool, stderr io.Writer) (*logrus.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(file)
	logger.SetLevel(cfg.LogLevel())
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.AddHook(&writerHook{
			w:         stderr,
			formatter: &logrus.TextFormatter{DisableTimestamp: true},
		})
	}
	return logger, file
}

// writerHook copies entries to w in its own format.
type writerHook struct {
	w         io.Writer
	formatter logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}
