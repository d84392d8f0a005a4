package upgradelistsdk

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	entry    *logrus.Entry
	ErrorLog *LevelLogger
	WarnLog  *LevelLogger
	InfoLog  *LevelLogger
	DebugLog *LevelLogger
}

// LevelLogger writes at a fixed level. Sprint both logs and returns the message so it
// can be stored on an error response in one line.
type LevelLogger struct {
	entry *logrus.Entry
	level logrus.Level
}

func NewLogger(appName, level string) *Logger {
	return NewLoggerWithOutput(appName, level, os.Stderr)
}

func NewLoggerWithOutput(appName, level string, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	return newLogger(base.WithField("app", appName))
}

func newLogger(entry *logrus.Entry) *Logger {
	return &Logger{
		entry:    entry,
		ErrorLog: &LevelLogger{entry: entry, level: logrus.ErrorLevel},
		WarnLog:  &LevelLogger{entry: entry, level: logrus.WarnLevel},
		InfoLog:  &LevelLogger{entry: entry, level: logrus.InfoLevel},
		DebugLog: &LevelLogger{entry: entry, level: logrus.DebugLevel},
	}
}

// WithField returns a child logger carrying key=value on every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return newLogger(l.entry.WithField(key, value))
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return newLogger(l.entry.WithFields(logrus.Fields(fields)))
}

func (l *LevelLogger) Sprint(args ...interface{}) string {
	msg := fmt.Sprint(args...)
	if l != nil {
		l.entry.Log(l.level, msg)
	}
	return msg
}

func (l *LevelLogger) Sprintf(format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if l != nil {
		l.entry.Log(l.level, msg)
	}
	return msg
}
