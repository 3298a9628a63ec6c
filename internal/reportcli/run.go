package reportcli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"tavolo/internal/admin/app/services"
	"tavolo/internal/reports"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"

	database "tavolo/internal/admin/adapter/db"
	xdb "tavolo/internal/xpkg/db"

	"github.com/olekukonko/tablewriter"
)

var (
	errParseCmd = errors.New("failed to parse command")
)

type params struct {
	configPath string
	from       string
	to         string
	limit      int
	csvPath    string
}

// Execute runs a one-shot sales report against the database: summary,
// top-selling items and the daily series, with an optional CSV ledger
// written to disk.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}

	var cfg *config.Config
	if params.configPath == "" {
		cfg = config.LoadDotEnv()
	} else {
		cfg, err = config.LoadConfig(params.configPath)
		if err != nil {
			return err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	pool, err := xdb.StartPool(ctx, cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	defer pool.Close()

	orderRepo := database.NewOrderRepo(pool)
	reportService := services.NewReportService(orderRepo, mylog, loc)

	summary, err := reportService.Summary(ctx, params.from, params.to)
	if err != nil {
		return err
	}
	topItems, err := reportService.TopItems(ctx, params.from, params.to, params.limit)
	if err != nil {
		return err
	}
	daily, err := reportService.Daily(ctx, params.from, params.to)
	if err != nil {
		return err
	}

	printSummary(summary)
	printTopItems(topItems)
	printDaily(daily)

	if params.csvPath != "" {
		payload, _, err := reportService.Export(ctx, params.from, params.to, "csv")
		if err != nil {
			return err
		}
		if err := os.WriteFile(params.csvPath, []byte(payload), 0o644); err != nil {
			return fmt.Errorf("failed to write csv export: %w", err)
		}
		mylog.Action("csv_written").Info("CSV export written", "path", params.csvPath)
	}
	return nil
}

func printSummary(summary reports.Summary) {
	fmt.Println("Sales summary")
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Metric", "Value")
	_ = table.Append([]string{"Total orders", fmt.Sprintf("%d", summary.TotalOrders)})
	_ = table.Append([]string{"Total sales", fmt.Sprintf("%.2f", summary.TotalSales)})
	_ = table.Append([]string{"Avg order value", fmt.Sprintf("%.2f", summary.AvgOrderValue)})
	for status, count := range summary.OrdersByStatus {
		_ = table.Append([]string{"Orders " + status, fmt.Sprintf("%d", count)})
	}
	_ = table.Render()
}

func printTopItems(items []reports.ItemRank) {
	fmt.Println("\nTop-selling items")
	table := tablewriter.NewTable(os.Stdout)
	table.Header("#", "Item", "Quantity", "Revenue")
	for i, item := range items {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1), item.Name,
			fmt.Sprintf("%d", item.Quantity), fmt.Sprintf("%.2f", item.Revenue),
		})
	}
	_ = table.Render()
}

func printDaily(days []reports.DayBucket) {
	fmt.Println("\nDaily sales")
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Date", "Orders", "Sales")
	for _, day := range days {
		_ = table.Append([]string{day.Date, fmt.Sprintf("%d", day.Orders), fmt.Sprintf("%.2f", day.Sales)})
	}
	_ = table.Render()
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "", "path for config yaml (env vars used when empty)")
	from := fs.String("from", "", "window start date (2006-01-02, business time zone)")
	to := fs.String("to", "", "window end date, inclusive (2006-01-02)")
	limit := fs.Int("limit", 5, "How many top-selling items to show")
	csvPath := fs.String("csv", "", "Write the CSV ledger export to this path")

	if err := fs.Parse(args); err != nil {
		return nil, errParseCmd
	}
	if *showHelp {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	return &params{
		configPath: *configPath,
		from:       *from,
		to:         *to,
		limit:      *limit,
		csvPath:    *csvPath,
	}, nil
}
