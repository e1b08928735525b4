// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

type Config struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

func init() {
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init configures the global logger. Safe to call once at startup;
// components created before Init fall back to the default stdout logger.
func Init(config Config) error {
	var output io.Writer = os.Stdout
	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}

	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

// Get returns the global logger.
func Get() zerolog.Logger {
	return globalLogger
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}
