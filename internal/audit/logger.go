// Package audit writes an append-only JSONL record of every reservation
// engine operation: CREATE, RESERVE, SHOW, LIST, QUIT.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is a single audit record for one engine operation.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	SessionID int32     `json:"sessionId"`
	Op        string    `json:"op"`
	EventID   uint32    `json:"eventId,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	LatencyUs int64     `json:"latencyUs"`
}

// Logger is a mutex-guarded, rotated, append-only writer of Entry records.
type Logger struct {
	mu     sync.Mutex
	writer *lumberjack.Logger
}

// NewLogger opens (creating if necessary) the audit log at path, rotating
// at 10MB and keeping 5 backups.
func NewLogger(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}
	return &Logger{
		writer: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     0,
			Compress:   true,
		},
	}, nil
}

// Log appends one audit entry for a completed engine operation.
func (l *Logger) Log(sessionID int32, op string, eventID uint32, outcome string, detail string, latency time.Duration) {
	entry := Entry{
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Op:        op,
		EventID:   eventID,
		Outcome:   outcome,
		Detail:    detail,
		LatencyUs: latency.Microseconds(),
	}
	l.write(entry)
}

func (l *Logger) write(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to marshal entry: %v\n", err)
		return
	}
	data = append(data, '\n')
	if _, err := l.writer.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to write entry: %v\n", err)
	}
}

// Close closes the underlying rotated log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer.Close()
}
