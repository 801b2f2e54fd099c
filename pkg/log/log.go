package log

import (
	"fmt"
	"os"
)

// Log Level
type Level int

// Log Levels
//
// Arranged from most to least verbose
const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	QUIET
)

var levelNames = [6]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "QUIET"}

func (l Level) String() string {
	if l < TRACE || l > QUIET {
		return "UNKNOWN"
	}
	return levelNames[l]
}

var std = NewLogger("slsock")

// Default returns the package-level logger.
func Default() *Logger { return std }

func SetLevel(l Level) error { return std.SetLevel(l) }
func GetLevel() Level        { return std.GetLevel() }

// Init sets the package-level log level and, when filePath is not
// empty, mirrors every message to that file.
func Init(filePath string, lvl Level) error {
	if err := std.SetLevel(lvl); err != nil {
		return err
	}
	if filePath == "" {
		return nil
	}
	return std.SetFile(filePath)
}

func Log(msg *LogMessage)   { std.Log(msg) }
func Fatal(msg *LogMessage) { std.Log(msg); os.Exit(1) }

func Debug(v ...any) { std.Log(NewLogMessage(DEBUG, fmt.Sprint(v...))) }
func Info(v ...any)  { std.Log(NewLogMessage(INFO, fmt.Sprint(v...))) }
func Warn(v ...any)  { std.Log(NewLogMessage(WARN, fmt.Sprint(v...))) }
func Error(v ...any) { std.Log(NewLogMessage(ERROR, fmt.Sprint(v...))) }

func Debugf(format string, v ...any) { std.Log(NewLogMessage(DEBUG, fmt.Sprintf(format, v...))) }
func Infof(format string, v ...any)  { std.Log(NewLogMessage(INFO, fmt.Sprintf(format, v...))) }
func Warnf(format string, v ...any)  { std.Log(NewLogMessage(WARN, fmt.Sprintf(format, v...))) }
func Errorf(format string, v ...any) { std.Log(NewLogMessage(ERROR, fmt.Sprintf(format, v...))) }
func Fatalf(format string, v ...any) {
	std.Log(NewLogMessage(ERROR, fmt.Sprintf(format, v...)))
	os.Exit(1)
}

func Debugln(v ...any) { std.Log(NewLogMessage(DEBUG, fmt.Sprintln(v...))) }
func Infoln(v ...any)  { std.Log(NewLogMessage(INFO, fmt.Sprintln(v...))) }
func Warnln(v ...any)  { std.Log(NewLogMessage(WARN, fmt.Sprintln(v...))) }
func Errorln(v ...any) { std.Log(NewLogMessage(ERROR, fmt.Sprintln(v...))) }
func Fatalln(v ...any) {
	std.Log(NewLogMessage(ERROR, fmt.Sprintln(v...)))
	os.Exit(1)
}
