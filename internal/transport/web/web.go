package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/roamly/roamly/internal/booking"
	"github.com/roamly/roamly/internal/catalog"
	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/state"
)

type Conf struct {
	L                 *logger.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

type Server struct {
	e            *echo.Echo
	l            *logger.Logger
	conf         Conf
	destinations *catalog.Destinations
	packages     *catalog.Packages
	bookings     *booking.Manager
	state        *state.Store
}

func New(
	conf Conf,
	destinations *catalog.Destinations,
	packages *catalog.Packages,
	bookings *booking.Manager,
	stateStore *state.Store,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = conf.ReadHeaderTimeout * time.Second //nolint:durationcheck

	server := &Server{
		e:            e,
		l:            conf.L,
		conf:         conf,
		destinations: destinations,
		packages:     packages,
		bookings:     bookings,
		state:        stateStore,
	}

	e.Use(echomiddleware.Recover())
	e.Use(server.accessLogMiddleware())

	server.addRoutes()

	return server
}

func (s *Server) Start() error {
	return s.e.Start(net.JoinHostPort(s.conf.Host, s.conf.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.e
}
