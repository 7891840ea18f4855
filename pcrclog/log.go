// Package pcrclog wires up the structured logger every other package
// logs through: colored level-tagged console output plus a size-rotated
// file log, grounded on pcrc/logger.py's PcrcLogger (console +
// zip-on-rotate file handler) but built on this module's logging
// dependency, github.com/sirupsen/logrus, with
// gopkg.in/natefinch/lumberjack.v2 standing in for the Python class's
// hand-rolled "zip yesterday's log on startup" rotation.
package pcrclog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New. FilePath defaults to "logs/PCRC.log",
// matching LOG_FILE_PATH.
type Options struct {
	Debug    bool
	FilePath string

	// MaxSizeMB/MaxBackups configure the lumberjack file rotation;
	// PcrcLogger instead zipped the previous day's log once at
	// startup, a pattern Compress:true on the lumberjack logger
	// reproduces continuously rather than only at process start.
	MaxSizeMB  int
	MaxBackups int
}

// New builds a logrus.Logger matching PcrcLogger's two independently
// formatted handlers: a plain, rotating file log (the logger's own
// output) and a colored console copy of every entry (a hook), so
// console formatting never bleeds into the on-disk log. debug selects
// Debug vs Info level, matching set_debug.
func New(opts Options) *logrus.Logger {
	if opts.FilePath == "" {
		opts.FilePath = "logs/PCRC.log"
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 50
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 10
	}

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	})
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	log.AddHook(&consoleHook{
		formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
			ForceColors:     true,
		},
		writer: os.Stdout,
	})
	return log
}

// consoleHook writes a colored copy of every entry to writer,
// independent of the base logger's own (plain, file-bound) formatter.
type consoleHook struct {
	formatter logrus.Formatter
	writer    io.Writer
}

func (h *consoleHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *consoleHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}
