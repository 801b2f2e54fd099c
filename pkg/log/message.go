package log

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lattesec/slsock/internal/helpers/debughelper"
)

type LogMessage struct {
	Timestamp time.Time         // timestamp
	Level     Level             // log level
	Msg       string            // log message
	Meta      map[string]string // log metadata

	trace  string // stack trace (optional)
	caller string // caller (optional)
}

// NewLogMessage
//
// Creates a new LogMessage
func NewLogMessage(level Level, msg string) *LogMessage {
	return &LogMessage{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Msg:       msg,
		Meta:      make(map[string]string),
	}
}

func (lm *LogMessage) WithMeta(key string, value any) *LogMessage {
	lm.Meta[key] = fmt.Sprintf("%v", value)
	return lm
}

func (lm *LogMessage) WithMetaf(key, format string, v ...any) *LogMessage {
	lm.Meta[key] = fmt.Sprintf(format, v...)
	return lm
}

func (lm *LogMessage) WithTraceStack() *LogMessage {
	lm.trace = debughelper.TraceStack()
	return lm
}

func (lm *LogMessage) WithCaller() *LogMessage {
	lm.caller = debughelper.TraceCaller(3)
	return lm
}

// Format renders the message as a single log line.
func (lm *LogMessage) Format(name string) string {
	var b strings.Builder

	b.WriteString(lm.Timestamp.Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(lm.Level.String())
	b.WriteString("] ")
	if name != "" {
		b.WriteString(name)
		b.WriteString(": ")
	}
	b.WriteString(strings.TrimSuffix(lm.Msg, "\n"))

	if len(lm.Meta) > 0 {
		keys := make([]string, 0, len(lm.Meta))
		for k := range lm.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%s", k, lm.Meta[k]))
		}
	}

	if lm.caller != "" {
		b.WriteString(" ")
		b.WriteString(lm.caller)
	}
	if lm.trace != "" {
		b.WriteString("\n")
		b.WriteString(lm.trace)
	}

	return b.String()
}

func (lm *LogMessage) String() string {
	return lm.Format("")
}
