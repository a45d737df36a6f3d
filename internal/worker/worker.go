// Package worker implements the fixed pool of session servers: each worker
// serves one session end to end — SETUP reply, then a strictly sequential
// request/response loop — before going back to the queue for the next
// handshake.
package worker

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/radio-control/emsd/internal/audit"
	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/session"
	"github.com/radio-control/emsd/internal/wire"
)

// Worker serves one session at a time, drawn from a shared queue.
type Worker struct {
	id                 int
	sessionID          int32
	queue              *session.Queue
	eng                *engine.Engine
	audLog             *audit.Logger
	maxReservationSize uint64
	logger             *log.Logger
}

func newWorker(id int, queue *session.Queue, eng *engine.Engine, audLog *audit.Logger, maxReservationSize uint64, logger *log.Logger) *Worker {
	return &Worker{
		id:                 id,
		sessionID:          int32(id),
		queue:              queue,
		eng:                eng,
		audLog:             audLog,
		maxReservationSize: maxReservationSize,
		logger:             logger,
	}
}

// run dequeues handshakes until ctx is cancelled or the queue closes.
func (w *Worker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		hs, err := w.queue.Dequeue()
		if err != nil {
			// Queue closed: shutting down.
			return
		}
		w.serve(hs)
	}
}

// serve answers the SETUP handshake, then loops reading and answering
// framed requests on the session's request/response pipes until QUIT or a
// transport error ends the session. Both channels are opened and closed
// fresh for every round trip rather than held open for the session's
// lifetime — the same discipline as the original execute_commands, which
// relies on each message fitting in one read/write pair instead of a
// long-lived file descriptor.
func (w *Worker) serve(hs session.Handshake) {
	if !w.reply(hs.RespPath, wire.OpSetup, wire.EncodeSetupResponse(wire.SetupResponse{SessionID: w.sessionID})) {
		return
	}

	for {
		opcode, payload, err := w.readRequest(hs.ReqPath)
		if err != nil {
			if errors.Is(err, wire.ErrProtocol) {
				w.logger.Printf("worker %d: malformed request on session %d: %v", w.id, w.sessionID, err)
				return
			}
			// Transport error: abandon the session.
			return
		}

		respPayload, quit, err := w.dispatch(opcode, payload)
		if err != nil {
			w.logger.Printf("worker %d: session %d: %v", w.id, w.sessionID, err)
			respPayload = wire.EncodeStatusResponse(wire.StatusResponse{Status: 1})
		}

		if !w.reply(hs.RespPath, opcode, respPayload) {
			return
		}

		if quit {
			if err := os.Remove(hs.ReqPath); err != nil && !os.IsNotExist(err) {
				w.logger.Printf("worker %d: unlink request channel %s: %v", w.id, hs.ReqPath, err)
			}
			return
		}
	}
}

// readRequest opens the request channel read/write (so the open call never
// blocks waiting for a writer), reads exactly one frame, and closes it.
func (w *Worker) readRequest(path string) (opcode byte, payload []byte, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		w.logger.Printf("worker %d: open request channel %s: %v", w.id, path, err)
		return 0, nil, err
	}
	defer f.Close()
	return wire.ReadFrame(f)
}

// reply opens the response channel write-only, writes one frame, and
// closes it, logging and returning false on any failure.
func (w *Worker) reply(path string, opcode byte, payload []byte) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		w.logger.Printf("worker %d: open response channel %s: %v", w.id, path, err)
		return false
	}
	defer f.Close()
	if err := wire.WriteFrame(f, opcode, payload); err != nil {
		w.logger.Printf("worker %d: write reply on session %d: %v", w.id, w.sessionID, err)
		return false
	}
	return true
}
