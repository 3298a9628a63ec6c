package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tavolo/internal/admin/api/http/handle"
	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/app/services"
	"tavolo/internal/xpkg/auth"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
	"tavolo/internal/xpkg/metrics"

	brokermessage "tavolo/internal/admin/adapter/broker_message"
	database "tavolo/internal/admin/adapter/db"
	xdb "tavolo/internal/xpkg/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux         *http.ServeMux
	cfg         *config.Config
	srv         *http.Server
	adminParams *core.AdminParams
	mylog       logger.Logger
	pool        *pgxpool.Pool
	mb          core.IBroker
	ctx         context.Context
	appCtx      context.Context
	mu          sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, adminParams *core.AdminParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:         ctx,
		appCtx:      appCtx,
		cfg:         cfg,
		adminParams: adminParams,
		mylog:       mylog,
		mux:         http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := s.initializeBroker(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.adminParams.Port),
		Handler: metrics.Middleware(s.mux),
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.adminParams.Port).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.pool != nil {
		s.pool.Close()
		s.mylog.Action("db_closed").Info("Database pool closed")
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	pool, err := xdb.StartPool(s.appCtx, s.cfg.DB)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDBConn, err)
	}
	s.pool = pool
	return nil
}

func (s *Server) initializeBroker() error {
	mb, err := brokermessage.New(s.cfg.RMQ)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrRMQConn, err)
	}
	s.mb = mb
	return nil
}

// Configure sets up repositories, services and HTTP routes. Everything
// except /admin/login and /metrics sits behind the admin JWT.
func (s *Server) Configure() error {
	loc, err := s.cfg.Location()
	if err != nil {
		return err
	}

	orderRepo := database.NewOrderRepo(s.pool)
	banRepo := database.NewBanRepo(s.pool)
	menuRepo := database.NewMenuRepo(s.pool)

	orderService := services.NewOrderService(orderRepo, s.mb, s.mylog, loc)
	banService := services.NewBanService(banRepo, s.mylog)
	menuService := services.NewMenuService(menuRepo, s.mylog)
	reportService := services.NewReportService(orderRepo, s.mylog, loc)

	authHandler := handle.NewAuthHandler(s.cfg.Admin, s.mylog)
	orderHandler := handle.NewOrderHandler(orderService, s.mylog)
	banHandler := handle.NewBanHandler(banService, s.mylog)
	menuHandler := handle.NewMenuHandler(menuService, s.mylog)
	reportHandler := handle.NewReportHandler(reportService, s.mylog)

	s.mux.Handle("POST /admin/login", authHandler.Login())
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.protect("POST /admin/orders/{order_number}/advance", orderHandler.Advance())
	s.protect("POST /admin/orders/{order_number}/cancel", orderHandler.Cancel())
	s.protect("GET /admin/orders", orderHandler.List())
	s.protect("GET /admin/stats/today", orderHandler.StatsToday())

	s.protect("POST /admin/bans", banHandler.Create())
	s.protect("DELETE /admin/bans/{id}", banHandler.Lift())
	s.protect("GET /admin/customers/{id}/bans", banHandler.History())

	s.protect("GET /admin/sizes", menuHandler.ListSizes())
	s.protect("POST /admin/sizes", menuHandler.CreateSize())
	s.protect("PATCH /admin/sizes/{id}", menuHandler.PatchSize())
	s.protect("POST /admin/items/{item}/sizes", menuHandler.LinkItemSize())
	s.protect("GET /admin/items/{item}/sizes", menuHandler.ListItemSizes())

	s.protect("GET /admin/reports/summary", reportHandler.Summary())
	s.protect("GET /admin/reports/top-items", reportHandler.TopItems())
	s.protect("GET /admin/reports/daily", reportHandler.Daily())
	s.protect("GET /admin/reports/export", reportHandler.Export())
	return nil
}

func (s *Server) protect(pattern string, h http.Handler) {
	s.mux.Handle(pattern, auth.RequireRole(s.cfg.Admin.JWTSecret, "admin", h))
}
