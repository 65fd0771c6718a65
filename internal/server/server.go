package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	http *http.Server
}

func NewServer(cfg Config, router RouterConfig) *Server {
	return &Server{http: &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
