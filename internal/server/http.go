package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/config"
)

// HTTPService serves a handler until stopped. Stop drains in-flight requests
// for up to ShutdownTimeout.
type HTTPService struct {
	srv             *http.Server
	logger          *zap.Logger
	ShutdownTimeout time.Duration
}

// NewHTTPService binds h to the address and timeouts in cfg.
func NewHTTPService(cfg config.HTTPConfig, h http.Handler, logger *zap.Logger) *HTTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPService{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:          logger,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Addr returns the listen address.
func (s *HTTPService) Addr() string { return s.srv.Addr }

// Start listens until Stop is called.
func (s *HTTPService) Start() error {
	s.logger.Info("http listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
}
