package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
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

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var (
	mu       sync.Mutex
	minLevel           = LevelInfo
	output   io.Writer = os.Stderr
)

func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// SetDebug toggles debug-level output on or off.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level Level, component, msg string, fields map[string]interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(levelNames[level])
	sb.WriteString("]")
	if component != "" {
		sb.WriteString(" [")
		sb.WriteString(component)
		sb.WriteString("]")
	}
	sb.WriteString(" ")
	sb.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
		}
	}
	sb.WriteString("\n")

	fmt.Fprint(output, sb.String())
}

func Debug(msg string) { logf(LevelDebug, "", msg, nil) }
func Info(msg string)  { logf(LevelInfo, "", msg, nil) }
func Warn(msg string)  { logf(LevelWarn, "", msg, nil) }
func Error(msg string) { logf(LevelError, "", msg, nil) }

func Debugf(format string, a ...any) { logf(LevelDebug, "", fmt.Sprintf(format, a...), nil) }
func Infof(format string, a ...any)  { logf(LevelInfo, "", fmt.Sprintf(format, a...), nil) }
func Warnf(format string, a ...any)  { logf(LevelWarn, "", fmt.Sprintf(format, a...), nil) }
func Errorf(format string, a ...any) { logf(LevelError, "", fmt.Sprintf(format, a...), nil) }

// The CF variants carry a component tag and structured fields.

func DebugCF(component, msg string, fields map[string]interface{}) {
	logf(LevelDebug, component, msg, fields)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	logf(LevelInfo, component, msg, fields)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	logf(LevelWarn, component, msg, fields)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	logf(LevelError, component, msg, fields)
}
