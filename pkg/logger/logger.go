package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

// Logger writes leveled key/value events, either as plain text or JSON lines.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	json    bool
	out     io.Writer
	context map[string]string
}

var (
	defaultLogger *Logger
	initOnce      sync.Once
)

// Init configures the process-wide logger. A nil out discards everything,
// which is what tests want.
func Init(level LogLevel, jsonFormat bool, out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	if _, ok := levelRank[level]; !ok {
		level = INFO
	}
	defaultLogger = &Logger{
		level:   level,
		json:    jsonFormat,
		out:     out,
		context: map[string]string{},
	}
}

// GetLogger returns the configured logger, initializing a default one if
// Init was never called.
func GetLogger() *Logger {
	initOnce.Do(func() {
		if defaultLogger == nil {
			Init(INFO, false, os.Stdout)
		}
	})
	return defaultLogger
}

// WithContext returns a logger that attaches the given field to every event.
func (l *Logger) WithContext(key, value string) *Logger {
	ctx := make(map[string]string, len(l.context)+1)
	for k, v := range l.context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Logger{
		level:   l.level,
		json:    l.json,
		out:     l.out,
		context: ctx,
	}
}

func (l *Logger) Debug(event string, kv ...interface{}) { l.log(DEBUG, event, kv...) }
func (l *Logger) Info(event string, kv ...interface{})  { l.log(INFO, event, kv...) }
func (l *Logger) Warn(event string, kv ...interface{})  { l.log(WARN, event, kv...) }
func (l *Logger) Error(event string, kv ...interface{}) { l.log(ERROR, event, kv...) }

func (l *Logger) log(level LogLevel, event string, kv ...interface{}) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	fields := make(map[string]interface{}, len(l.context)+len(kv)/2)
	for k, v := range l.context {
		fields[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kv[i])
		}
		fields[key] = kv[i+1]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format(time.RFC3339)
	if l.json {
		entry := map[string]interface{}{
			"timestamp": ts,
			"level":     string(level),
			"event":     event,
		}
		for k, v := range fields {
			entry[k] = v
		}
		line, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintln(l.out, string(line))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", ts, level, event)
	for k, v := range fields {
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	fmt.Fprintln(l.out, sb.String())
}
