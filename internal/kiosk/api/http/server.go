package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tavolo/internal/kiosk/api/http/handle"
	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/kiosk/app/services"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"

	brokermessage "tavolo/internal/kiosk/adapter/broker_message"
	database "tavolo/internal/kiosk/adapter/db"
	xdb "tavolo/internal/xpkg/db"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux         *http.ServeMux
	cfg         *config.Config
	srv         *http.Server
	kioskParams *core.KioskParams
	mylog       logger.Logger
	db          core.IDB
	mb          core.IBroker
	ctx         context.Context
	appCtx      context.Context
	mu          sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, kioskParams *core.KioskParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:         ctx,
		appCtx:      appCtx,
		cfg:         cfg,
		kioskParams: kioskParams,
		mylog:       mylog,
		mux:         http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	db, err := xdb.Start(s.appCtx, s.cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	s.db = db
	mylog.Action("db_connected").Info("Successful database connection")

	mb, err := brokermessage.New(s.cfg.RMQ)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	s.mb = mb
	mylog.Action("mb_connected").Info("Successful message broker connection")

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.kioskParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.With("port", s.kioskParams.Port).Info("server is running")
	return s.startHTTPServer()
}

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

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
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

func (s *Server) Configure() error {
	loc, err := s.cfg.Location()
	if err != nil {
		return err
	}

	kioskRepo := database.NewKioskRepo(s.db, loc)
	kioskService := services.NewKioskService(kioskRepo, s.mb, s.mylog)
	kioskHandler := handle.NewKioskHandler(kioskService, s.mylog)

	s.mux.Handle("POST /kiosk/orders", kioskHandler.Create())
	s.mux.Handle("POST /kiosk/orders/{order_number}/payment", kioskHandler.ConfirmPayment())
	s.mux.Handle("POST /kiosk/orders/{order_number}/complete", kioskHandler.Complete())
	s.mux.Handle("POST /kiosk/orders/{order_number}/cancel", kioskHandler.Cancel())
	s.mux.Handle("GET /kiosk/orders/open", kioskHandler.ListOpen())
	return nil
}
