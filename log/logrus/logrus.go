package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/histcache"
)

var _ histcache.Logger = Logger{}

// Logger adapts a *logrus.Entry; every line carries component=histcache.
type Logger struct{ E *logrus.Entry }

func New(l logrus.FieldLogger) Logger {
	return Logger{E: l.WithField("component", "histcache")}
}

func (l Logger) Debug(msg string, f histcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f histcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f histcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f histcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f histcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
