package common

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ShutdownHook runs after a termination signal but before the HTTP server
// begins its graceful shutdown. Errors are logged; shutdown continues.
type ShutdownHook func(ctx context.Context) error

// RunServerWithShutdown starts the server and blocks until SIGINT/SIGTERM,
// then runs the hooks in order and shuts the server down within the given
// timeout.
func RunServerWithShutdown(server *http.Server, name string, shutdownTimeout time.Duration, hooks ...ShutdownHook) {
	go func() {
		log.Printf("starting %s on %s", name, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("%s listen error: %v", name, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Printf("shutdown signal received for %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		if err := h(ctx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	} else {
		log.Printf("%s shutdown complete", name)
	}
}
