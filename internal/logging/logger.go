package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func ParseLevel(levelStr string) Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes one JSON object per line.
type Logger struct {
	level     Level
	component string
	mu        *sync.Mutex
	out       io.Writer
}

func NewLogger(levelStr string) *Logger {
	return NewLoggerWithWriter(levelStr, os.Stderr)
}

func NewLoggerWithWriter(levelStr string, w io.Writer) *Logger {
	return &Logger{
		level: ParseLevel(levelStr),
		mu:    &sync.Mutex{},
		out:   w,
	}
}

// WithComponent returns a logger sharing the same output that tags every
// record with component.
func (l *Logger) WithComponent(component string) *Logger {
	cp := *l
	cp.component = component
	return &cp
}

func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Debugw(msg string, fields map[string]any) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Infow(msg string, fields map[string]any)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warnw(msg string, fields map[string]any)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Errorw(msg string, fields map[string]any) { l.log(LevelError, msg, fields) }

func (l *Logger) log(level Level, msg string, fields map[string]any) {
	if !l.Enabled(level) {
		return
	}
	rec := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		rec[k] = v
	}
	rec["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	rec["level"] = level.String()
	rec["msg"] = msg
	if l.component != "" {
		rec["component"] = l.component
	}

	line, err := json.Marshal(rec)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"msg":%q,"log_error":%q}`, level.String(), msg, err.Error()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(line, '\n'))
}
