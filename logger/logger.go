package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Logger is the interface for logging issued statements and internal
// messages. The migrator itself never logs decisions; the gateway logs
// every statement it executes with its duration.
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SQL(sql string, duration time.Duration, args ...any)
}

// stdLogger is the default implementation of Logger
type stdLogger struct {
	level  LogLevel
	format LogFormat
	writer io.Writer
}

// NewStdLogger creates a logger writing text to stdout at info level.
func NewStdLogger() Logger {
	return &stdLogger{
		level:  LogLevelInfo,
		format: LogFormatText,
		writer: os.Stdout,
	}
}

func (l *stdLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *stdLogger) SetFormat(format LogFormat) {
	l.format = format
}

func (l *stdLogger) SetOutput(w io.Writer) {
	l.writer = w
}

func (l *stdLogger) Info(format string, args ...any) {
	if l.level >= LogLevelInfo {
		l.log("INFO", fmt.Sprintf(format, args...))
	}
}

func (l *stdLogger) Warn(format string, args ...any) {
	if l.level >= LogLevelWarn {
		l.log("WARN", fmt.Sprintf(format, args...))
	}
}

func (l *stdLogger) Error(format string, args ...any) {
	if l.level >= LogLevelError {
		l.log("ERROR", fmt.Sprintf(format, args...))
	}
}

func (l *stdLogger) SQL(sql string, duration time.Duration, args ...any) {
	if l.level < LogLevelInfo {
		return
	}
	if l.format == LogFormatJSON {
		l.logJSON("SQL", map[string]any{
			"sql":      sql,
			"duration": duration.String(),
			"args":     args,
		})
		return
	}
	msg := fmt.Sprintf("[%v] %s", duration, sql)
	if len(args) > 0 {
		msg += fmt.Sprintf(" | args: %v", args)
	}
	l.log("SQL", getSQLColor(sql)+msg+ansiReset)
}

func (l *stdLogger) log(level, msg string) {
	now := time.Now()
	if l.format == LogFormatJSON {
		l.logJSON(level, map[string]any{"msg": msg})
		return
	}
	fmt.Fprintf(l.writer, "[ACCRETE] %s %s: %s\n", now.Format("2006-01-02 15:04:05"), level, msg)
}

func (l *stdLogger) logJSON(level string, data map[string]any) {
	data["time"] = time.Now().Format(time.RFC3339)
	data["level"] = level
	json.NewEncoder(l.writer).Encode(data)
}

// getSQLColor colors by statement verb: schema changes green, catalog reads
// yellow, everything else cyan.
func getSQLColor(sqlStr string) string {
	s := strings.TrimSpace(strings.ToUpper(sqlStr))
	switch {
	case strings.HasPrefix(s, "CREATE"), strings.HasPrefix(s, "ALTER"):
		return ansiGreen
	case strings.HasPrefix(s, "SELECT"), strings.HasPrefix(s, "PRAGMA"):
		return ansiYellow
	default:
		return ansiCyan
	}
}
