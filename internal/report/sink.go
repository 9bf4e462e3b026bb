// Package report implements the leveled, printf-style report sink from
// spec section 6: info/debug/result/error, purely observational. Two
// concrete sinks are provided so the motion core never has to import a
// logging library directly.
package report

import (
	"go.uber.org/zap"

	"go.viam.com/rdk/logging"
)

// Sink is the report contract the motion core and homing controller write
// progress and results to.
type Sink interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Resultf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type zapSink struct {
	l *zap.SugaredLogger
}

// NewZapSink builds a Sink backed directly by zap, for standalone use (the
// fishfood-axis daemon) outside of a registered viam component.
func NewZapSink(l *zap.SugaredLogger) Sink {
	return &zapSink{l: l}
}

func (s *zapSink) Infof(format string, args ...interface{})   { s.l.Infof(format, args...) }
func (s *zapSink) Debugf(format string, args ...interface{})  { s.l.Debugf(format, args...) }
func (s *zapSink) Errorf(format string, args ...interface{})  { s.l.Errorf(format, args...) }
func (s *zapSink) Resultf(format string, args ...interface{}) { s.l.Infof("result: "+format, args...) }

type rdkSink struct {
	l logging.Logger
}

// FromLogger adapts a go.viam.com/rdk/logging.Logger, the type every viam
// component constructor receives, into a report.Sink.
func FromLogger(l logging.Logger) Sink {
	return &rdkSink{l: l}
}

func (s *rdkSink) Infof(format string, args ...interface{})  { s.l.Infof(format, args...) }
func (s *rdkSink) Debugf(format string, args ...interface{}) { s.l.Debugf(format, args...) }
func (s *rdkSink) Errorf(format string, args ...interface{}) { s.l.Errorf(format, args...) }
func (s *rdkSink) Resultf(format string, args ...interface{}) {
	s.l.Infof("result: "+format, args...)
}

// Nop discards everything. Handy as a test default.
type Nop struct{}

func (Nop) Infof(string, ...interface{})   {}
func (Nop) Debugf(string, ...interface{})  {}
func (Nop) Resultf(string, ...interface{}) {}
func (Nop) Errorf(string, ...interface{})  {}
