// Package diag implements the signal-driven diagnostic dump of engine
// state: a designated thread installs a handler for SIGUSR1
// that does nothing but set a flag; the main loop observes the flag
// between rendezvous reads and calls the synchronous dump routine.
package diag

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/radio-control/emsd/internal/engine"
)

// Dump watches for SIGUSR1 and exposes a one-bit, single-producer/
// single-consumer notification the listener's main loop can poll between
// reads. Unlike a raw C signal handler, Go's signal.Notify channel is not
// cleared by the runtime on delivery, so there is no re-installation step
// here — the watch goroutine simply keeps ranging over the channel.
type Dump struct {
	triggered atomic.Bool
	sigCh     chan os.Signal
	done      chan struct{}
}

// New installs the SIGUSR1 handler and starts watching for it. Go delivers
// the signal to the registered channel rather than to any particular
// goroutine, so workers never receive it; only the goroutine that calls
// Poll (the listener) acts on it.
func New() *Dump {
	d := &Dump{
		sigCh: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	signal.Notify(d.sigCh, syscall.SIGUSR1)
	go d.watch()
	return d
}

func (d *Dump) watch() {
	for {
		select {
		case <-d.sigCh:
			d.triggered.Store(true)
		case <-d.done:
			return
		}
	}
}

// Stop de-registers the handler and stops the watch goroutine.
func (d *Dump) Stop() {
	signal.Stop(d.sigCh)
	close(d.done)
}

// Poll reports whether SIGUSR1 arrived since the last Poll, clearing the
// flag atomically. Call this between rendezvous reads.
func (d *Dump) Poll() bool {
	return d.triggered.CompareAndSwap(true, false)
}

// Print writes every event's id and seat grid to w, one event per block,
// in a plain-text dump format.
func Print(w io.Writer, eng *engine.Engine) error {
	snapshots, err := eng.Dump()
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(w, "No Events")
		return err
	}
	for _, ev := range snapshots {
		if _, err := fmt.Fprintf(w, "Event id: %d\n", ev.ID); err != nil {
			return err
		}
		for r := uint64(0); r < ev.Rows; r++ {
			for c := uint64(0); c < ev.Cols; c++ {
				if c > 0 {
					if _, err := fmt.Fprint(w, " "); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "%d", ev.Seats[r*ev.Cols+c]); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
