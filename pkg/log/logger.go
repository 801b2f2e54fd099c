package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type Logger struct {
	mu sync.Mutex

	level Level  // defaults to WARN
	name  string // the name of the logger

	logfile *os.File // leave nil to disable file writes

	stdout io.Writer // defaults to os.Stdout
	stderr io.Writer // defaults to os.Stderr
}

func NewLogger(name string) *Logger {
	return &Logger{
		level:  WARN,
		name:   name,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (l *Logger) GetName() string { return l.name }

func (l *Logger) SetName(name string) {
	l.mu.Lock()
	l.name = name
	l.mu.Unlock()
}

func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) SetLevel(lvl Level) error {
	switch lvl {
	case TRACE, DEBUG, INFO, WARN, ERROR, QUIET:
		l.mu.Lock()
		l.level = lvl
		l.mu.Unlock()
		return nil
	}
	return fmt.Errorf("invalid log level: %d", lvl)
}

// SetFile mirrors all messages to filePath, replacing any previous
// logfile. The file receives every message regardless of level.
func (l *Logger) SetFile(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logfile != nil {
		_ = l.logfile.Close()
	}
	l.logfile = f
	return nil
}

func (l *Logger) SetStdout(w io.Writer) {
	l.mu.Lock()
	l.stdout = w
	l.mu.Unlock()
}

func (l *Logger) SetStderr(w io.Writer) {
	l.mu.Lock()
	l.stderr = w
	l.mu.Unlock()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logfile == nil {
		return nil
	}
	err := l.logfile.Close()
	l.logfile = nil
	return err
}

func (l *Logger) Log(msg *LogMessage) {
	if msg == nil {
		return
	}

	line := msg.Format(l.name)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logfile != nil {
		_, _ = l.logfile.WriteString(line)
	}

	if msg.Level < l.level {
		return
	}

	switch msg.Level {
	case TRACE, DEBUG, INFO:
		fmt.Fprint(l.stdout, line)
	case WARN, ERROR:
		fmt.Fprint(l.stderr, line)
	}
}
