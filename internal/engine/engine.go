// Package engine implements the in-memory reservation engine: an
// append-only, reader/writer-locked catalog of events, each with its own
// reservation counter and per-seat mutex slab.
package engine

import (
	"fmt"
	"sync"
	"time"
)

// Engine is the process-wide reservation engine singleton. The zero value is not initialized; call Init before
// any other method. It is an explicit value owned by main and passed as a
// handle to the listener and workers; there is no package-level state.
type Engine struct {
	lifecycleMu sync.Mutex
	initialized bool
	accessDelay time.Duration

	catalogMu sync.RWMutex
	events    []*Event
	byID      map[uint32]*Event
}

// New returns an uninitialized Engine. Call Init before use.
func New() *Engine {
	return &Engine{}
}

// Init initializes the engine: an empty catalog and the configured
// access-delay parameter. Re-initialization without an intervening
// Terminate fails with ErrAlreadyInitialized.
func (e *Engine) Init(accessDelay time.Duration) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.accessDelay = accessDelay
	e.catalogMu.Lock()
	e.events = nil
	e.byID = make(map[uint32]*Event)
	e.catalogMu.Unlock()
	e.initialized = true
	return nil
}

// Terminate frees the catalog. Subsequent operations fail with
// ErrNotInitialized until Init is called again.
func (e *Engine) Terminate() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}
	e.catalogMu.Lock()
	e.events = nil
	e.byID = nil
	e.catalogMu.Unlock()
	e.initialized = false
	return nil
}

func (e *Engine) checkInitialized() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Create adds a new event with the given id and dimensions. The catalog writer lock is held for the
// duplicate-check-then-append window so no two concurrent CREATEs can
// both observe an empty slot for the same id.
func (e *Engine) Create(eventID uint32, rows, cols uint64) error {
	if err := e.checkInitialized(); err != nil {
		return err
	}
	if rows < 1 || cols < 1 {
		return ErrInvalidDimensions
	}

	e.catalogMu.Lock()
	defer e.catalogMu.Unlock()

	if _, exists := e.byID[eventID]; exists {
		return fmt.Errorf("%w: event %d", ErrDuplicate, eventID)
	}

	ev := newEvent(eventID, rows, cols)
	e.events = append(e.events, ev)
	e.byID[eventID] = ev
	return nil
}

// find looks up an event under the catalog reader lock and always sleeps
// for the configured access delay before returning, to simulate a costly
// memory-hierarchy access. The delay is applied outside
// the lock so it never serializes unrelated readers against each other.
func (e *Engine) find(eventID uint32) (*Event, error) {
	e.catalogMu.RLock()
	ev, ok := e.byID[eventID]
	e.catalogMu.RUnlock()

	if e.accessDelay > 0 {
		time.Sleep(e.accessDelay)
	}

	if !ok {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
	}
	return ev, nil
}

// Reserve atomically claims every seat in coords under a single fresh
// reservation id, or changes nothing and returns an error. The event lookup is released before any seat mutex is taken,
// per §4.2 step 1 — only the event's own locks guard the reservation.
func (e *Engine) Reserve(eventID uint32, coords []Seat) error {
	if err := e.checkInitialized(); err != nil {
		return err
	}

	ev, err := e.find(eventID)
	if err != nil {
		return err
	}

	sorted, err := normalizeSeats(coords)
	if err != nil {
		return err
	}

	return ev.reserve(sorted)
}

// Show returns a single atomic snapshot of an event's seat grid (spec
// §4.2 SHOW).
func (e *Engine) Show(eventID uint32) (rows, cols uint64, seats []uint32, err error) {
	if err := e.checkInitialized(); err != nil {
		return 0, 0, nil, err
	}
	ev, err := e.find(eventID)
	if err != nil {
		return 0, 0, nil, err
	}
	return ev.Rows, ev.Cols, ev.snapshot(), nil
}

// List returns every event id in insertion order.
func (e *Engine) List() ([]uint32, error) {
	if err := e.checkInitialized(); err != nil {
		return nil, err
	}
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()
	ids := make([]uint32, len(e.events))
	for i, ev := range e.events {
		ids[i] = ev.ID
	}
	return ids, nil
}

// Snapshot is one event's id and seat grid, as produced by Dump.
type Snapshot struct {
	ID    uint32
	Rows  uint64
	Cols  uint64
	Seats []uint32
}

// Dump enumerates every event under a single catalog reader-lock hold and
// snapshots each one's grid, for the asynchronous "print engine state on
// USR-signal" path. Safe to call concurrently with any other
// engine operation.
func (e *Engine) Dump() ([]Snapshot, error) {
	if err := e.checkInitialized(); err != nil {
		return nil, err
	}
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()

	out := make([]Snapshot, len(e.events))
	for i, ev := range e.events {
		out[i] = Snapshot{ID: ev.ID, Rows: ev.Rows, Cols: ev.Cols, Seats: ev.snapshot()}
	}
	return out, nil
}
