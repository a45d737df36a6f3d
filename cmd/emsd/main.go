// Package main implements the event reservation server entry point.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/radio-control/emsd/internal/audit"
	"github.com/radio-control/emsd/internal/config"
	"github.com/radio-control/emsd/internal/diag"
	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/listener"
	"github.com/radio-control/emsd/internal/session"
	"github.com/radio-control/emsd/internal/worker"
)

const Version = "1.0.0"

func main() {
	log.Printf("Starting event reservation server v%s", Version)

	// Step 1: Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyArgs(cfg, os.Args[1:])
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Println("Configuration loaded successfully")

	// Step 2: Initialize the reservation engine.
	eng := engine.New()
	if err := eng.Init(cfg.AccessDelay); err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	log.Println("Reservation engine initialized")

	// Step 3: Initialize the audit logger.
	auditLogger, err := audit.NewLogger(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}
	log.Println("Audit logger initialized")

	// Step 4: Create the bounded session queue.
	queue := session.NewQueue(cfg.MaxWaitList)
	log.Println("Session queue initialized")

	// Step 5: Install the SIGUSR1 diagnostic dump handler.
	dumper := diag.New()
	log.Println("Diagnostic dump handler installed")

	// Step 6: Start the worker pool.
	pool := worker.NewPool(cfg.MaxSessionCount, queue, eng, auditLogger, cfg.MaxReservationSize, log.Default())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	log.Printf("Worker pool started with %d workers", cfg.MaxSessionCount)

	// Step 7: Open and run the rendezvous listener.
	l := listener.New(cfg.RendezvousPath, queue, eng, dumper, log.Default())
	rendezvous, err := l.Open()
	if err != nil {
		log.Fatalf("Failed to open rendezvous channel: %v", err)
	}
	log.Printf("Listening on rendezvous channel %s", cfg.RendezvousPath)

	listenerErr := make(chan error, 1)
	go func() {
		listenerErr <- l.Run(ctx, rendezvous)
	}()

	shutdown := installShutdownHandler()

	select {
	case sig := <-shutdown:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-listenerErr:
		if err != nil {
			log.Printf("Listener error: %v", err)
		}
	}

	// Graceful shutdown: stop accepting new handshakes, drain and stop
	// the worker pool, close the audit log, then the engine.
	cancel()
	rendezvous.Close()
	queue.Close()
	dumper.Stop()
	pool.Wait()

	if err := auditLogger.Close(); err != nil {
		log.Printf("Error closing audit logger: %v", err)
	}
	log.Println("Audit logger closed")

	if err := eng.Terminate(); err != nil {
		log.Printf("Error terminating engine: %v", err)
	}

	log.Println("Event reservation server shutdown complete")
}

// installShutdownHandler returns a channel that receives SIGINT or SIGTERM.
func installShutdownHandler() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch
}

// applyArgs implements the CLI surface "server <rendezvous_path>
// [access_delay_us]", overriding whatever config.Load already
// resolved from file and environment.
func applyArgs(cfg *config.Config, args []string) {
	if len(args) >= 1 && args[0] != "" {
		cfg.RendezvousPath = args[0]
	}
	if len(args) >= 2 {
		if us, err := strconv.ParseUint(args[1], 10, 32); err == nil {
			cfg.AccessDelay = time.Duration(us) * time.Microsecond
		} else {
			log.Printf("Ignoring malformed access_delay_us argument %q: %v", args[1], err)
		}
	}
}
