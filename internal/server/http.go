package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPService adapts an *http.Server to Service.
type HTTPService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	listener        net.Listener
}

// NewHTTPService wraps srv. shutdownTimeout bounds Stop; zero waits for
// in-flight requests indefinitely.
//
// Precondition: srv and logger must be non-nil.
func NewHTTPService(srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) *HTTPService {
	return &HTTPService{srv: srv, shutdownTimeout: shutdownTimeout, logger: logger}
}

// Listen binds the listener ahead of Start so bind failures surface before
// the lifecycle runs and so callers can read the bound address.
func (h *HTTPService) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return nil, err
	}
	h.listener = ln
	return ln.Addr(), nil
}

// Start serves until Stop is called.
func (h *HTTPService) Start() error {
	if h.listener == nil {
		if _, err := h.Listen(); err != nil {
			return err
		}
	}
	h.logger.Info("http listening", zap.String("addr", h.listener.Addr().String()))
	if err := h.srv.Serve(h.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (h *HTTPService) Stop() {
	ctx := context.Background()
	if h.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.shutdownTimeout)
		defer cancel()
	}
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown", zap.Error(err))
	}
}
