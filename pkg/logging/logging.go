// Package logging provides leveled, subsystem-tagged logging that stays off
// the terminal. Entries are kept in an in-memory ring for the app-logs pane,
// optionally mirrored to a rolling file, and fanned out to subscribers.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntry is one recorded log event.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

const (
	ringSize             = 2048
	subscriberBufferSize = 256
)

var (
	mu          sync.Mutex
	debugOn     bool
	fileSink    *lumberjack.Logger
	fileLogger  *slog.Logger
	ring        [ringSize]LogEntry
	ringLen     int
	ringPos     int
	subscribers []chan LogEntry
)

// Init mirrors entries to a rolling file at path. An empty path keeps
// logging in memory only. Call once at startup.
func Init(path string, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	debugOn = debug
	if fileSink != nil {
		fileSink.Close()
		fileSink = nil
		fileLogger = nil
	}
	if path == "" {
		return
	}
	fileSink = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	fileLogger = slog.New(slog.NewTextHandler(fileSink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// SetDebug toggles debug-level entries at runtime.
func SetDebug(on bool) {
	mu.Lock()
	debugOn = on
	mu.Unlock()
}

// Close flushes and closes the log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if fileSink != nil {
		fileSink.Close()
		fileSink = nil
		fileLogger = nil
	}
}

// Subscribe returns a channel receiving entries as they are logged. Entries
// are dropped for subscribers that stop draining.
func Subscribe() <-chan LogEntry {
	ch := make(chan LogEntry, subscriberBufferSize)
	mu.Lock()
	subscribers = append(subscribers, ch)
	mu.Unlock()
	return ch
}

// Recent returns the ring contents in chronological order.
func Recent() []LogEntry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]LogEntry, 0, ringLen)
	start := ringPos - ringLen
	if start < 0 {
		start += ringSize
	}
	for i := 0; i < ringLen; i++ {
		out = append(out, ring[(start+i)%ringSize])
	}
	return out
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Subsystem: subsystem,
		Message:   msg,
		Err:       err,
	}

	mu.Lock()
	if level == LevelDebug && !debugOn {
		mu.Unlock()
		return
	}
	ring[ringPos] = entry
	ringPos = (ringPos + 1) % ringSize
	if ringLen < ringSize {
		ringLen++
	}
	logger := fileLogger
	subs := subscribers
	mu.Unlock()

	if logger != nil {
		attrs := []slog.Attr{slog.String("subsystem", subsystem)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		logger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
	}
	for _, ch := range subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
