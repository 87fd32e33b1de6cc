// Package logging wires logrus to a rotating log file and optional stdout.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the global logger setup.
type Options struct {
	// File is the log file path. Empty disables file output.
	File string
	// Debug lowers the level to debug.
	Debug bool
	// Quiet drops the stdout tee, leaving file output only.
	Quiet bool
}

// Setup configures the global logrus logger.
func Setup(opts Options) {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	var writers []io.Writer
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	if !opts.Quiet {
		writers = append(writers, os.Stdout)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
}
