// Package ulogger wraps zerolog behind the small interface the rest of
// chainnode depends on, so components never import zerolog directly.
package ulogger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ordishs/gocore"
	"github.com/rs/zerolog"
)

// Logger is the logging facade every long-lived component is constructed with.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	With(component string) Logger
}

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 34
	colorWhite  = 37
	colorBold   = 1
)

// zlogger is the concrete zerolog-backed Logger.
type zlogger struct {
	zerolog.Logger
	service string
}

// New constructs the root logger for a process. logLevel defaults to "INFO".
func New(service string, logLevel ...string) Logger {
	if service == "" {
		service = "chainnode"
	}

	var z *zlogger
	if gocore.Config().GetBool("PRETTY_LOGS", true) {
		z = prettyLogger(service)
	} else {
		z = &zlogger{
			zerolog.New(os.Stdout).With().Timestamp().Logger(),
			service,
		}
	}

	level := "INFO"
	if len(logLevel) > 0 {
		level = logLevel[0]
	}
	z.Logger = z.Logger.Level(parseLevel(level))

	return z
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func prettyLogger(service string) *zlogger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	output.FormatTimestamp = func(i interface{}) string {
		parsed, err := time.Parse(time.RFC3339, fmt.Sprintf("%v", i))
		if err != nil {
			return fmt.Sprintf("%v", i)
		}
		return parsed.Format("15:04:05")
	}

	output.FormatLevel = func(i interface{}) string {
		l := strings.ToUpper(fmt.Sprintf("%-6s", i))
		switch i {
		case "debug":
			l = colorize(l, colorBlue)
		case "info":
			l = colorize(l, colorGreen)
		case "warn":
			l = colorize(l, colorYellow)
		case "error", "fatal", "panic":
			l = colorize(l, colorRed)
		default:
			l = colorize(l, colorWhite)
		}
		return fmt.Sprintf("| %s|", l)
	}

	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("| %-10s| %s", service, i)
	}

	output.FormatCaller = func(i interface{}) string {
		c, ok := i.(string)
		if !ok || c == "" {
			return ""
		}
		return colorize(filepath.Base(c), colorBold)
	}

	return &zlogger{
		zerolog.New(output).With().Timestamp().Logger(),
		service,
	}
}

func colorize(s string, c int) string {
	if os.Getenv("NO_COLOR") != "" {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}

func (z *zlogger) Debugf(format string, args ...interface{}) { z.Logger.Debug().Msgf(format, args...) }
func (z *zlogger) Infof(format string, args ...interface{})  { z.Logger.Info().Msgf(format, args...) }
func (z *zlogger) Warnf(format string, args ...interface{})  { z.Logger.Warn().Msgf(format, args...) }
func (z *zlogger) Errorf(format string, args ...interface{}) { z.Logger.Error().Msgf(format, args...) }
func (z *zlogger) Fatalf(format string, args ...interface{}) { z.Logger.Fatal().Msgf(format, args...) }

// With returns a child logger tagged with the given component name, mirroring
// the "[Miner]"/"[BlockValidation]" per-component prefixes the teacher logs with.
func (z *zlogger) With(component string) Logger {
	return &zlogger{
		z.Logger.With().Str("component", component).Logger(),
		z.service,
	}
}
