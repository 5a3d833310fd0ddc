package logger

import "github.com/sirupsen/logrus"

type Logger struct {
	l *logrus.Logger
}

func New(l *logrus.Logger) *Logger {
	return &Logger{l: l}
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *Logger) LogWarn(format string, v ...any) {
	l.l.Warnf(format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Infof(format, v...)
}

func (l *Logger) LogDebug(format string, v ...any) {
	l.l.Debugf(format, v...)
}

// SetLevel applies a logrus level name, falling back to info on unknown input.
func (l *Logger) SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}

	l.l.SetLevel(parsed)
}
