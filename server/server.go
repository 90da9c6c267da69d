// Package server assembles the HTTP API and the reminder scheduler.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/pengingat/internal/profile"
	"github.com/hrygo/pengingat/plugin/ai/aitime"
	"github.com/hrygo/pengingat/plugin/ai/reminder"
	"github.com/hrygo/pengingat/server/internal/observability"
	"github.com/hrygo/pengingat/server/middleware"
	apiv1 "github.com/hrygo/pengingat/server/router/api/v1"
	"github.com/hrygo/pengingat/store"
)

const shutdownTimeout = 10 * time.Second

// Server is the pengingat HTTP server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	scheduler  *reminder.Scheduler
	metrics    *observability.Metrics
	logger     *slog.Logger
	listener   net.Listener
}

// NewServer wires the services, middleware and routes. A nil logger discards.
func NewServer(_ context.Context, profile *profile.Profile, store *store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	temporal := aitime.NewService(
		aitime.WithLocation(profile.Location()),
		aitime.WithActivityLabel(profile.ActivityLabel),
		aitime.WithLogger(logger),
	)
	reminders := reminder.NewService(store, temporal, reminder.WithLogger(logger))
	scheduler := reminder.NewScheduler(reminders, reminder.SchedulerConfig{Interval: profile.ReminderInterval})
	metrics := observability.NewMetrics()

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler(logger)
	echoServer.Use(middleware.RequestContext(logger, metrics))
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(middleware.NewRateLimiter(profile.RateLimit, profile.RateBurst).Middleware())

	apiV1Service := apiv1.NewAPIV1Service(profile, temporal, reminders, scheduler, metrics, logger)
	apiV1Service.RegisterRoutes(echoServer)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
		scheduler:  scheduler,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Handler exposes the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Addr returns the bound address once Start has begun listening.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the configured address. Start calls it when needed.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.listener = listener
	s.echoServer.Listener = listener
	return nil
}

// Start serves HTTP and runs the reminder scheduler until ctx is cancelled
// or either fails, then shuts both down.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("pengingat server started",
			slog.String("addr", s.listener.Addr().String()),
			slog.String("mode", s.Profile.Mode),
			slog.String("driver", s.Profile.Driver),
			slog.String("timezone", s.Profile.Timezone),
		)
		if err := s.echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "failed to serve")
		}
		return nil
	})
	g.Go(func() error {
		if err := s.scheduler.Start(gctx); err != nil {
			return errors.Wrap(err, "failed to start reminder scheduler")
		}
		<-gctx.Done()
		s.scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()
	if err := s.echoServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown server")
	}
	s.logger.Info("pengingat server stopped")
	return nil
}
