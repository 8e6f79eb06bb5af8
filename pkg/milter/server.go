// Package milter classifies live mail for an MTA over the milter protocol.
package milter

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/d--j/go-milter"

	"github.com/zpam/nbfilter/pkg/config"
	"github.com/zpam/nbfilter/pkg/learning"
	"github.com/zpam/nbfilter/pkg/logging"
	"github.com/zpam/nbfilter/pkg/normalize"
)

// Server is the nbfilter milter server
type Server struct {
	config    *config.MilterConfig
	milterSrv *milter.Server
	logger    *slog.Logger
}

// NewServer creates a milter server classifying with model. The model is
// shared read-only by every connection.
func NewServer(cfg *config.MilterConfig, n *normalize.Normalizer, model *learning.Model, logger *slog.Logger) (*Server, error) {
	if model == nil {
		return nil, fmt.Errorf("milter server needs a trained model")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	classifier := learning.NewClassifier(model)

	// Only the end-of-message callbacks are needed
	milterOpts := []milter.Option{
		milter.WithProtocol(milter.OptNoConnect | milter.OptNoHelo | milter.OptNoRcptTo),
		milter.WithMilter(func() milter.Milter {
			return NewHandler(cfg, n, classifier, logger)
		}),
	}

	if cfg.AddHeaders {
		milterOpts = append(milterOpts, milter.WithAction(milter.OptAddHeader))
	}

	if cfg.ReadTimeoutMs > 0 {
		milterOpts = append(milterOpts, milter.WithReadTimeout(
			time.Duration(cfg.ReadTimeoutMs)*time.Millisecond))
	}
	if cfg.WriteTimeoutMs > 0 {
		milterOpts = append(milterOpts, milter.WithWriteTimeout(
			time.Duration(cfg.WriteTimeoutMs)*time.Millisecond))
	}

	return &Server{
		config:    cfg,
		milterSrv: milter.NewServer(milterOpts...),
		logger:    logger,
	}, nil
}

// Listen opens the configured socket
func (s *Server) Listen() (net.Listener, error) {
	listener, err := net.Listen(s.config.Network, s.config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s %s: %w", s.config.Network, s.config.Address, err)
	}
	return listener, nil
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully within the configured timeout
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.milterSrv.Serve(listener)
	}()

	s.logger.Info("milter server listening", "network", s.config.Network, "address", listener.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(s.config.GracefulShutdownTimeout)*time.Millisecond,
		)
		defer cancel()

		if err := s.milterSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown milter server: %w", err)
		}
		s.logger.Info("milter server stopped", "sessions", s.milterSrv.MilterCount())
		return ctx.Err()

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("milter server error: %w", err)
		}
		return nil
	}
}

// Close closes the milter server
func (s *Server) Close() error {
	return s.milterSrv.Close()
}

// Stats returns server statistics
func (s *Server) Stats() ServerStats {
	return ServerStats{
		MilterCount: s.milterSrv.MilterCount(),
	}
}

// ServerStats contains server statistics
type ServerStats struct {
	MilterCount uint64 // Total number of milter instances created
}
