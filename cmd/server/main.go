package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imageuploader-api/internal/bootstrap"
	"imageuploader-api/internal/logging"
	httptransport "imageuploader-api/internal/transport/http"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Printf("bootstrap failed: %v", err)
		return 1
	}

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              app.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.Logger.Info(ctx, "server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		app.Logger.Info(context.Background(), "shutdown signal received")
	case err := <-serveErr:
		app.Logger.Error(context.Background(), "server failed", "error", err)
		exitCode = 1
	}

	shutdown(server, app, app.Logger)
	return exitCode
}

func shutdown(server *http.Server, app *bootstrap.App, logger logging.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "server shutdown failed", "error", err)
	}
	if err := app.Close(); err != nil {
		logger.Error(shutdownCtx, "close resources failed", "error", err)
	}
}
