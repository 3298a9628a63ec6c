package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"tavolo/internal/admin"
	"tavolo/internal/kiosk"
	"tavolo/internal/notifier"
	"tavolo/internal/reportcli"
	"tavolo/internal/storefront"
	"tavolo/internal/storefront/app/core"
	"tavolo/internal/xpkg/logger"
)

func main() {
	mylogger, err := logger.New("DEBUG")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	mylogger.Action("tavolo_started").Info("Successfully started")
	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: storefront | kiosk | admin | notifier | report")

	// Only parse the first few args for `--mode`, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("tavolo_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("tavolo_failed").Error("Failed to start", core.ErrModeFlag)
		help(fs)
		return
	}

	// Remaining args after parsing --mode
	remainingArgs := args[len(modeArgs):]

	ctx := context.Background()
	switch *mode {
	case "storefront", "sf":
		run(ctx, mylogger, "storefront", storefront.Execute, remainingArgs)
	case "kiosk", "ks":
		run(ctx, mylogger, "kiosk", kiosk.Execute, remainingArgs)
	case "admin", "ad":
		run(ctx, mylogger, "admin", admin.Execute, remainingArgs)
	case "notifier", "nt":
		run(ctx, mylogger, "notifier", notifier.Execute, remainingArgs)
	case "report", "rp":
		run(ctx, mylogger, "report", reportcli.Execute, remainingArgs)
	default:
		mylogger.Action("tavolo_failed").Error("Failed to start", core.ErrUnknownService)
		help(fs)
	}
}

type executeFn func(context.Context, logger.Logger, []string) error

func run(ctx context.Context, mylogger logger.Logger, service string, execute executeFn, args []string) {
	l := mylogger.With("service", service)
	l.Action(service + "_started").Info("Successfully started")

	if err := execute(ctx, l, args); err != nil {
		l.Action(service+"_failed").Error("Error in "+service, err)
		if !errors.Is(err, flag.ErrHelp) {
			log.Fatalf("failed to execute %s: %s", service, err)
		}
		return
	}
	l.Action(service + "_completed").Info("Successfully completed")
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./tavolo --mode=storefront --port=3000 --max-concurrent=50")
}
