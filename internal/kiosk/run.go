package kiosk

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"tavolo/internal/kiosk/api/http"
	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
)

type params struct {
	kioskParams *core.KioskParams
	configPath  string
	cfg         *config.Config
}

// Execute starts the kiosk service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.kioskParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("kiosk_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("kiosk", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "", "path for config yaml (env vars used when empty)")
	port := fs.Int("port", 3001, "Port to run the kiosk service")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	return &params{
		kioskParams: &core.KioskParams{Port: *port},
		configPath:  *configPath,
	}, nil
}

func validateParams(params *params) error {
	if params.configPath == "" {
		params.cfg = config.LoadDotEnv()
	} else {
		cfg, err := config.LoadConfig(params.configPath)
		if err != nil {
			return err
		}
		params.cfg = cfg
	}

	if params.kioskParams.Port <= 0 || params.kioskParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", params.kioskParams.Port)
	}
	return nil
}
