package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Fields carries structured context attached to a log entry.
type Fields map[string]interface{}

// Logger writes structured log entries for a named component.
type Logger struct {
	name string
	out  io.Writer
	mu   *sync.Mutex
}

var defaultMu sync.Mutex

// New creates a logger for the given component name.
func New(name string) *Logger {
	return &Logger{
		name: name,
		out:  os.Stdout,
		mu:   &defaultMu,
	}
}

// NewWithWriter creates a logger writing to the given writer. Used in tests.
func NewWithWriter(name string, w io.Writer) *Logger {
	return &Logger{
		name: name,
		out:  w,
		mu:   &sync.Mutex{},
	}
}

type entry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

func (l *Logger) log(level, msg string, fields ...Fields) {
	e := entry{
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Component: l.name,
		Message:   msg,
	}
	if len(fields) > 0 {
		e.Fields = fields[0]
	}

	data, err := json.Marshal(e)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":%q,"message":%q}`, level, msg))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))
}

// Debug logs a debug-level entry.
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log("debug", msg, fields...)
}

// Info logs an info-level entry.
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log("info", msg, fields...)
}

// Warn logs a warn-level entry.
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log("warn", msg, fields...)
}

// Error logs an error-level entry.
func (l *Logger) Error(msg string, fields ...Fields) {
	l.log("error", msg, fields...)
}

// Fatal logs an error-level entry and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.log("fatal", msg, fields...)
	os.Exit(1)
}
