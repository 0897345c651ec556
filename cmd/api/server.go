package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"fullscope-site-backend/pkg/logger"

	"go.uber.org/zap"
)

// serve runs srv on ln until it stops on its own or a signal arrives on
// quit. After a signal, in-flight requests get drain to finish.
func serve(srv *http.Server, ln net.Listener, quit <-chan os.Signal, drain time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-quit:
		logger.Log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
