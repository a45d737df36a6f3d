package listener

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/session"
	"github.com/radio-control/emsd/internal/wire"
)

func TestOpenCreatesFifo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rendezvous.fifo")
	eng := engine.New()
	if err := eng.Init(0); err != nil {
		t.Fatalf("engine.Init: %v", err)
	}
	l := New(path, session.NewQueue(1), eng, nil, log.New(io.Discard, "", 0))

	f, err := l.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		t.Fatalf("expected %s to be a FIFO, mode=%v", path, info.Mode())
	}
}

func TestRunEnqueuesValidHandshake(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rendezvous.fifo")
	eng := engine.New()
	if err := eng.Init(0); err != nil {
		t.Fatalf("engine.Init: %v", err)
	}
	queue := session.NewQueue(1)
	l := New(path, queue, eng, nil, log.New(io.Discard, "", 0))

	f, err := l.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- l.Run(ctx, f) }()

	writer, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open rendezvous for write: %v", err)
	}
	hs, err := wire.EncodeHandshake(wire.Handshake{ReqPath: "/tmp/req.fifo", RespPath: "/tmp/resp.fifo"})
	if err != nil {
		t.Fatalf("EncodeHandshake: %v", err)
	}
	if _, err := writer.Write(hs); err != nil {
		t.Fatalf("write handshake: %v", err)
	}
	writer.Close()

	got, err := queue.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got.ReqPath != "/tmp/req.fifo" || got.RespPath != "/tmp/resp.fifo" {
		t.Fatalf("dequeued handshake = %+v", got)
	}

	cancel()
	select {
	case <-runErr:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDropsMalformedHandshakeAndKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rendezvous.fifo")
	eng := engine.New()
	if err := eng.Init(0); err != nil {
		t.Fatalf("engine.Init: %v", err)
	}
	queue := session.NewQueue(1)
	l := New(path, queue, eng, nil, log.New(io.Discard, "", 0))

	f, err := l.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx, f) }()

	writer, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open rendezvous for write: %v", err)
	}
	bad := make([]byte, wire.HandshakeSize)
	bad[0] = wire.OpQuit // not a SETUP opcode
	if _, err := writer.Write(bad); err != nil {
		t.Fatalf("write malformed handshake: %v", err)
	}

	good, err := wire.EncodeHandshake(wire.Handshake{ReqPath: "/tmp/req2.fifo", RespPath: "/tmp/resp2.fifo"})
	if err != nil {
		t.Fatalf("EncodeHandshake: %v", err)
	}
	if _, err := writer.Write(good); err != nil {
		t.Fatalf("write good handshake: %v", err)
	}
	writer.Close()

	got, err := queue.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got.ReqPath != "/tmp/req2.fifo" {
		t.Fatalf("expected the well-formed handshake to survive, got %+v", got)
	}
}
