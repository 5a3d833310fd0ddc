package event

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/roamly/roamly/internal/logger"
)

// loggerAdapter bridges watermill's logging onto the application logger.
type loggerAdapter struct {
	l      *logger.Logger
	fields watermill.LogFields
}

func newLoggerAdapter(l *logger.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{l: l, fields: nil}
}

func (a *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.l.LogErrorf("%s: %v %v", msg, err, a.fields.Add(fields))
}

func (a *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.l.LogInfo("%s %v", msg, a.fields.Add(fields))
}

func (a *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.l.LogDebug("%s %v", msg, a.fields.Add(fields))
}

func (a *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.l.LogDebug("%s %v", msg, a.fields.Add(fields))
}

func (a *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{l: a.l, fields: a.fields.Add(fields)}
}
