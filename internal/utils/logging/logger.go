// Package logging wraps a global zerolog logger for services and jobs.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string
	Format string
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	initLogger(Config{})
}

// Init reconfigures the global logger. Safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

func initLogger(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.DateTime}
	}

	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// With returns a child logger context carrying extra fields.
func With() zerolog.Context {
	return Logger().With()
}

func Debug() *zerolog.Event { return Logger().Debug() }

func Info() *zerolog.Event { return Logger().Info() }

func Warn() *zerolog.Event { return Logger().Warn() }

func Error() *zerolog.Event { return Logger().Error() }

func Fatal() *zerolog.Event { return Logger().Fatal() }
