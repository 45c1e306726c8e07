package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level порог вывода сообщений
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel разбирает LOG_LEVEL; неизвестное значение: info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger пишет сообщения с уровнем (debug/info/warning/error) в stdout/stderr.
type Logger struct {
	level      Level
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	mu         sync.Mutex
}

// New логгер в stdout (ошибки в stderr)
func New(level Level) *Logger {
	return NewWithWriters(level, os.Stdout, os.Stderr)
}

// NewWithWriters логгер с явными приёмниками, нужен в тестах.
func NewWithWriters(level Level, out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		level:      level,
		debugLog:   log.New(out, "DEBUG   ", flags),
		infoLog:    log.New(out, "INFO    ", flags),
		warningLog: log.New(out, "WARNING ", flags),
		errorLog:   log.New(errOut, "ERROR   ", flags),
	}
}

// Discard логгер, который ничего не пишет
func Discard() *Logger {
	return NewWithWriters(LevelError+1, io.Discard, io.Discard)
}

func (l *Logger) output(level Level, dst *log.Logger, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = dst.Output(3, fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.output(LevelDebug, l.debugLog, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.output(LevelInfo, l.infoLog, format, v...)
}

func (l *Logger) Warning(format string, v ...interface{}) {
	l.output(LevelWarning, l.warningLog, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.output(LevelError, l.errorLog, format, v...)
}
