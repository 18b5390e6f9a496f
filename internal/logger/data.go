package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// Logger provides structured logging with levels, tagging every entry with
// the component that emitted it.
type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
	zl       zerolog.Logger
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)
