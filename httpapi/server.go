package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wonderivan/logger"
)

const gracefulShutdownPeriod = 5 * time.Second

// Server serves the control surface until its context is done.
type Server struct {
	server *http.Server
}

func NewServer(address string, slots Slots, apps ForegroundApps) *Server {
	return &Server{
		server: &http.Server{
			Addr:    address,
			Handler: NewRouter(slots, apps),
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		logger.Info(logPrefix+"listening on %s", s.server.Addr)
		errs <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownPeriod)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	err = <-errs
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
