package core

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// Logger defines the output interface used by primset components.
type Logger interface {
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
}

// DefaultLogger wraps the standard log library.
type DefaultLogger struct {
	I *log.Logger
	W *log.Logger
	E *log.Logger
}

// NewLogger returns a configured default logger.
func NewLogger() *DefaultLogger {
	return &DefaultLogger{
		I: log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		W: log.New(os.Stdout, "[WARN] ", log.LstdFlags),
		E: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

// Info writes to info logger
func (d *DefaultLogger) Info(v ...interface{}) { d.I.Print(v...) }

// Infof writes to info logger
func (d *DefaultLogger) Infof(f string, v ...interface{}) { d.I.Printf(f, v...) }

// Warn writes to the warning logger
func (d *DefaultLogger) Warn(v ...interface{}) { d.W.Print(v...) }

// Warnf writes to the warning logger
func (d *DefaultLogger) Warnf(f string, v ...interface{}) { d.W.Printf(f, v...) }

// Error writes to the error logger
func (d *DefaultLogger) Error(v ...interface{}) { d.E.Print(v...) }

// Errorf writes to the error logger
func (d *DefaultLogger) Errorf(f string, v ...interface{}) { d.E.Printf(f, v...) }

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps the given zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// NewNopLogger returns a logger which discards everything.
func NewNopLogger() *ZapLogger {
	return NewZapLogger(zap.NewNop())
}

// Sync flushes the buffered entries.
func (z *ZapLogger) Sync() error { return z.sugar.Sync() }

// Info writes at the info level
func (z *ZapLogger) Info(v ...interface{}) { z.sugar.Info(v...) }

// Infof writes at the info level
func (z *ZapLogger) Infof(f string, v ...interface{}) { z.sugar.Infof(f, v...) }

// Warn writes at the warning level
func (z *ZapLogger) Warn(v ...interface{}) { z.sugar.Warn(v...) }

// Warnf writes at the warning level
func (z *ZapLogger) Warnf(f string, v ...interface{}) { z.sugar.Warnf(f, v...) }

// Error writes at the error level
func (z *ZapLogger) Error(v ...interface{}) { z.sugar.Error(v...) }

// Errorf writes at the error level
func (z *ZapLogger) Errorf(f string, v ...interface{}) { z.sugar.Errorf(f, v...) }
