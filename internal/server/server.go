// Package server assembles the HTTP server: middleware, API routes and the SPA.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"worldmandia-web/internal/api"
	"worldmandia-web/internal/certs"
	"worldmandia-web/internal/config"
	"worldmandia-web/internal/ratelimit"
	"worldmandia-web/internal/web"
)

// Server is the HTTP front of the application
type Server struct {
	Echo     *echo.Echo
	Settings *config.Settings

	limiter *ratelimit.Limiter
}

// New creates the server. It makes sure the static asset directory exists.
func New(settings *config.Settings, handlers *api.Handlers) (*Server, error) {
	if err := os.MkdirAll(settings.Static.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create static directory %s: %w", settings.Static.Dir, err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(parseLevel(settings.Log.Level))

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if len(settings.Server.CORS.Origins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: settings.Server.CORS.Origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
	e.Use(web.WasmContentType())

	limiter := ratelimit.New(settings.RateLimit.Writes, settings.RateLimit.Window)

	// API routes
	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, handlers, limiter)

	// Everything else is the single page application
	spa := web.NewSPAHandler(web.Assets(settings.Static.Dir), settings.Static.Index, settings.Static.Ignore)
	e.GET("/*", spa.ServeApp)
	e.HEAD("/*", spa.ServeApp)

	return &Server{
		Echo:     e,
		Settings: settings,
		limiter:  limiter,
	}, nil
}

// Listen binds the configured address. Binding separately from Serve lets
// startup fail fast when the port is taken.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Settings.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.Settings.Address(), err)
	}
	return ln, nil
}

// Serve handles connections on ln until Shutdown is called
func (s *Server) Serve(ln net.Listener) error {
	srv := s.Echo.Server
	if s.Settings.Server.TLS.Enabled {
		certPath, keyPath, err := certs.EnsureCertificates(s.Settings.Server.TLS.CertDir)
		if err != nil {
			ln.Close()
			return err
		}
		log.Printf("Serving HTTPS on %s", ln.Addr())
		return ignoreClosed(srv.ServeTLS(ln, certPath, keyPath))
	}

	log.Printf("Serving HTTP on %s", ln.Addr())
	return ignoreClosed(srv.Serve(ln))
}

// Shutdown stops accepting connections and waits for active requests
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	return s.Echo.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func parseLevel(level string) glog.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	default:
		return glog.INFO
	}
}
