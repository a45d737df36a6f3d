// Package listener implements the single agent that reads the rendezvous
// channel, validates handshakes, and enqueues them for the worker pool:
// Idle -> Reading -> Validating -> Enqueue -> (Idle | Error).
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	"github.com/radio-control/emsd/internal/diag"
	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/session"
	"github.com/radio-control/emsd/internal/wire"
)

// Listener owns the rendezvous FIFO and feeds validated handshakes into a
// bounded session.Queue.
type Listener struct {
	path   string
	queue  *session.Queue
	eng    *engine.Engine
	dumper *diag.Dump
	logger *log.Logger
}

// New returns a Listener for the rendezvous FIFO at path. dumper may be nil
// to disable the diagnostic-dump poll (used by tests that don't care about
// signal handling).
func New(path string, queue *session.Queue, eng *engine.Engine, dumper *diag.Dump, logger *log.Logger) *Listener {
	return &Listener{path: path, queue: queue, eng: eng, dumper: dumper, logger: logger}
}

// Open removes any stale FIFO at the configured path, recreates it with
// owner read/write + group read permissions, and opens it for
// read/write. Opening for both ends here — rather than read-only — keeps
// the read end from seeing EOF between clients, since the listener itself
// holds a writer reference the whole time it runs.
func (l *Listener) Open() (*os.File, error) {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("listener: unlink %s: %w", l.path, err)
	}
	if err := syscall.Mkfifo(l.path, 0640); err != nil {
		return nil, fmt.Errorf("listener: mkfifo %s: %w", l.path, err)
	}
	f, err := os.OpenFile(l.path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("listener: open %s: %w", l.path, err)
	}
	return f, nil
}

// Run reads handshakes from f until ctx is cancelled or a fatal transport
// error occurs. A separate goroutine closes f when ctx is done, which
// unblocks any in-flight read.
func (l *Listener) Run(ctx context.Context, f *os.File) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-stopped:
		}
	}()
	defer close(stopped)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if l.dumper != nil && l.dumper.Poll() {
			if err := diag.Print(os.Stdout, l.eng); err != nil {
				l.logger.Printf("listener: diagnostic dump failed: %v", err)
			}
		}

		hs, err := wire.ReadHandshake(f)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Zero-byte read: no client currently writing. Retry.
				continue
			}
			if errors.Is(err, wire.ErrProtocol) {
				l.logger.Printf("listener: malformed handshake dropped: %v", err)
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listener: fatal read error: %w", err)
		}

		if err := l.queue.Enqueue(session.Handshake{ReqPath: hs.ReqPath, RespPath: hs.RespPath}); err != nil {
			// Queue closed: shutting down.
			return nil
		}
	}
}
