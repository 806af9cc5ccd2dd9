package mock

import (
	"sync"

	"cosmossdk.io/log"
)

var _ log.Logger = (*MockLogger)(nil)

// MockLogger records every log line. It is safe for concurrent use.
type MockLogger struct {
	mtx sync.Mutex

	DebugLogs  []LogEntry
	InfoLogs   []LogEntry
	WarnLogs   []LogEntry
	ErrorLogs  []LogEntry
	WithRecord []any
}

// LogEntry is a struct that contains the message and key/value pairs passed to the logger
type LogEntry struct {
	Message string
	Params  []any
}

// Value returns the value logged under key, if any.
func (e LogEntry) Value(key string) (any, bool) {
	for i := 0; i+1 < len(e.Params); i += 2 {
		if k, ok := e.Params[i].(string); ok && k == key {
			return e.Params[i+1], true
		}
	}
	return nil, false
}

// NewMockLogger returns a new MockLogger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) Debug(msg string, keyVals ...any) {
	l.record(&l.DebugLogs, msg, keyVals)
}

func (l *MockLogger) Info(msg string, keyVals ...any) {
	l.record(&l.InfoLogs, msg, keyVals)
}

func (l *MockLogger) Warn(msg string, keyVals ...any) {
	l.record(&l.WarnLogs, msg, keyVals)
}

func (l *MockLogger) Error(msg string, keyVals ...any) {
	l.record(&l.ErrorLogs, msg, keyVals)
}

// With records the key/value pairs and returns the same logger.
func (l *MockLogger) With(keyVals ...any) log.Logger {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.WithRecord = append(l.WithRecord, keyVals...)
	return l
}

// Impl returns the logger itself.
func (l *MockLogger) Impl() any {
	return l
}

// Debugs returns a snapshot of the debug entries.
func (l *MockLogger) Debugs() []LogEntry {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]LogEntry(nil), l.DebugLogs...)
}

// Errors returns a snapshot of the error entries.
func (l *MockLogger) Errors() []LogEntry {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]LogEntry(nil), l.ErrorLogs...)
}

func (l *MockLogger) record(entries *[]LogEntry, msg string, keyVals []any) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	*entries = append(*entries, LogEntry{Message: msg, Params: keyVals})
}
