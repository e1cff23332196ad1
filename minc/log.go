package minc

import (
	"log"
	"sync"
)

// ModeFlag is the minimum severity written by the package logger.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

// Logger receives messages at different severities. It also satisfies the
// logger expected by the storage engine.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
}

type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...interface{}) {
	log.Printf("   DEBUG "+format, args...)
}

func (stdLogger) Infof(format string, args ...interface{}) {
	log.Printf("    INFO "+format, args...)
}

func (stdLogger) Warningf(format string, args ...interface{}) {
	log.Printf(" WARNING "+format, args...)
}

func (stdLogger) Errorf(format string, args ...interface{}) {
	log.Printf("   ERROR "+format, args...)
}

func (stdLogger) Criticalf(format string, args ...interface{}) {
	log.Printf("CRITICAL "+format, args...)
}

var (
	logMu  sync.RWMutex
	logger Logger = stdLogger{}
	mode          = InfoMode
)

// StandardLogger returns a Logger writing through the standard log package.
func StandardLogger() Logger { return stdLogger{} }

// SetLogger replaces the package logger. A nil logger restores the
// standard one.
func SetLogger(l Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = stdLogger{}
	}
	logger = l
}

// SetLogMode sets the severity required for a message to be written.
// SetLogMode(WarningMode) writes Warningf, Errorf and Criticalf only.
func SetLogMode(m ModeFlag) {
	logMu.Lock()
	defer logMu.Unlock()
	mode = m
}

func current(level ModeFlag) Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	if mode > level {
		return nil
	}
	return logger
}

func debugf(format string, args ...interface{}) {
	if l := current(DebugMode); l != nil {
		l.Debugf(format, args...)
	}
}

func infof(format string, args ...interface{}) {
	if l := current(InfoMode); l != nil {
		l.Infof(format, args...)
	}
}

func warningf(format string, args ...interface{}) {
	if l := current(WarningMode); l != nil {
		l.Warningf(format, args...)
	}
}

func errorf(format string, args ...interface{}) {
	if l := current(ErrorMode); l != nil {
		l.Errorf(format, args...)
	}
}
