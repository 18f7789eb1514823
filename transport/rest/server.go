package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the HTTP handlers and the websocket endpoint on one mux.
func NewRouter(handlers Handlers, ws http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.PingHandler)
	mux.HandleFunc("GET /stats", handlers.StatsHandler)
	mux.HandleFunc("GET /sessions/{id}", handlers.SessionHandler)
	mux.Handle("GET /ws", ws)

	return mux
}

// Start serves handler on port until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
