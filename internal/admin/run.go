package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"tavolo/internal/admin/api/http"
	"tavolo/internal/admin/app/core"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
)

type params struct {
	adminParams *core.AdminParams
	configPath  string
	cfg         *config.Config
}

// Execute starts the admin service.
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

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.adminParams, mylog)

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
			mylog.Action("admin_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "", "path for config yaml (env vars used when empty)")
	port := fs.Int("port", 3002, "Port to run the admin service")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	return &params{
		adminParams: &core.AdminParams{Port: *port},
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

	if params.adminParams.Port <= 0 || params.adminParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", params.adminParams.Port)
	}
	if params.cfg.Admin == nil || params.cfg.Admin.JWTSecret == "" {
		return fmt.Errorf("admin jwt secret must be configured")
	}
	return nil
}
