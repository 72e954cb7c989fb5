package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Server owns the HTTP listener for an echo router.
type Server struct {
	echo *echo.Echo
	addr string
	log  zerolog.Logger
}

func NewServer(e *echo.Echo, port string, log zerolog.Logger) *Server {
	return &Server{
		echo: e,
		addr: net.JoinHostPort("", port),
		log:  log,
	}
}

// Run blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Run() error {
	s.echo.Server.ReadHeaderTimeout = 10 * time.Second
	s.log.Info().Str("addr", s.addr).Msg("http server listening")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.echo.Shutdown(ctx)
}
