package supervisor

import (
	"context"
	"fmt"
	"time"
)

// HTTPServer is the lifecycle of a *fiber.App.
type HTTPServer interface {
	Listen(addr string) error
	ShutdownWithContext(ctx context.Context) error
}

// HTTPService wraps an HTTP server as a supervised service.
type HTTPService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
}

func NewHTTPService(server HTTPServer, addr string, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, addr: addr, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPService) String() string { return "http-server" }

// Serve implements suture.Service. It returns when the listener fails or
// after a graceful shutdown once ctx is cancelled.
func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Listen(h.addr)
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}
