// Package logging provides a minimal leveled logger for the conversion
// pipeline. Non-fatal conditions (page overflow, save timeouts, question
// count mismatches) are reported here and never abort a conversion.
package logging

import (
	"io"
	"log"
	"os"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var (
	debug   *log.Logger
	info    *log.Logger
	warning *log.Logger
	errlog  *log.Logger
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	debug = log.New(io.Discard, "D ", flags)
	info = log.New(io.Discard, "I ", flags)
	warning = log.New(io.Discard, "W ", flags)
	errlog = log.New(io.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

// SetLevel routes messages at or above l to stderr and discards the rest.
func SetLevel(l Level) {
	for i, logger := range []*log.Logger{debug, info, warning, errlog} {
		if Level(i) >= l {
			logger.SetOutput(os.Stderr)
		} else {
			logger.SetOutput(io.Discard)
		}
	}
}

// SetOutput redirects all levels to w; tests use this to capture output.
func SetOutput(w io.Writer) {
	for _, logger := range []*log.Logger{debug, info, warning, errlog} {
		logger.SetOutput(w)
	}
}

func Debug(msg string, v ...any) {
	debug.Printf(msg, v...)
}

func Info(msg string, v ...any) {
	info.Printf(msg, v...)
}

func Warning(msg string, v ...any) {
	warning.Printf(msg, v...)
}

func Error(msg string, v ...any) {
	errlog.Printf(msg, v...)
}
