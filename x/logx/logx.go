// Package logx is the firmware's logging front end. Host builds forward to
// log/slog; MCU builds print "[tag] LEVEL msg k=v" lines with println and
// never touch fmt.
package logx

import "sync/atomic"

// Level values match log/slog so host handlers can filter on them directly.
type Level int8

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch {
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarn:
		return "INFO"
	case l < LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

var minLevel atomic.Int32

// SetLevel drops records below l for every Logger.
func SetLevel(l Level) { minLevel.Store(int32(l)) }

func enabled(l Level) bool { return int32(l) >= minLevel.Load() }

// Logger tags every record with the owning component.
type Logger struct {
	tag string
}

func New(tag string) *Logger { return &Logger{tag: tag} }

func (l *Logger) Tag() string { return l.tag }

func (l *Logger) Debug(msg string, kv ...any) { l.log(LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(LevelError, msg, kv) }

func (l *Logger) log(lv Level, msg string, kv []any) {
	if l == nil || !enabled(lv) {
		return
	}
	emit(l.tag, lv, msg, kv)
}
