package internalhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/louro2023/agendaflow/internal/app"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string
	Port int
}

type Server struct {
	e    *echo.Echo
	app  *app.App
	addr string
}

func NewServer(config Config, a *app.App) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggingMiddleware)

	s := &Server{
		e:    e,
		app:  a,
		addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
	}

	api := e.Group("/api")
	api.POST("/login", s.login)

	api.GET("/events", s.listEvents)
	api.POST("/events", s.createEvent)
	api.GET("/events/day", s.eventsForDay)
	api.GET("/events/month", s.eventsForMonth)
	api.PUT("/events/:id", s.updateEvent)
	api.PUT("/events/:id/status", s.updateEventStatus)
	api.DELETE("/events/:id", s.removeEvent)

	api.GET("/users", s.listUsers)
	api.POST("/users", s.createUser)
	api.PUT("/users/:id", s.updateUser)
	api.PUT("/users/:id/active", s.setUserActive)
	api.DELETE("/users/:id", s.removeUser)

	api.GET("/export/ics", s.exportICS)
	api.GET("/sync", s.sync)
	api.GET("/health", s.health)

	return s
}

func (s *Server) Start(_ context.Context) error {
	log.Printf("starting http server on %s", s.addr)
	err := s.e.Start(s.addr)
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
