package notifier

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"tavolo/internal/notifier/adapter/consumer"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
)

var (
	errParseCmd = errors.New("failed to parse command")
)

// Execute starts the notification consumer.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}

	c := consumer.New(newCtx, context.Background(), cfg, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- c.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return c.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil {
			mylog.Action("notifier_failed").Error("Notifier failed unexpectedly", err)
			return err
		}
		return c.Stop(context.Background())
	}
}

func parseParams(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("notifier", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "", "path for config yaml (env vars used when empty)")

	if err := fs.Parse(args); err != nil {
		return nil, errParseCmd
	}
	if *showHelp {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	if *configPath == "" {
		return config.LoadDotEnv(), nil
	}
	return config.LoadConfig(*configPath)
}
