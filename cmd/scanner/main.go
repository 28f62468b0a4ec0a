package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"example.com/stock-pattern-scanner/internal/bar"
	"example.com/stock-pattern-scanner/internal/config"
	"example.com/stock-pattern-scanner/internal/marketdata"
	"example.com/stock-pattern-scanner/internal/notify"
	"example.com/stock-pattern-scanner/internal/pattern"
	"example.com/stock-pattern-scanner/internal/report"
	"example.com/stock-pattern-scanner/internal/scan"
	"example.com/stock-pattern-scanner/internal/sched"
	"example.com/stock-pattern-scanner/internal/symbols"
)

var (
	cfgFile       string
	symbolList    string
	symbolFile    string
	patternList   []string
	lookback      int
	minConfidence int
	workers       int
	format        string
	outputDir     string
	saveCSV       bool
	sendEmail     bool
	verbose       bool
)

func main() {
	// Credentials may live in a local .env file
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "scanner",
		Short: "Candlestick pattern scanner for US stocks",
		Long: `Scanner fetches daily OHLCV history and detects candlestick patterns,
scoring each occurrence by pattern reliability, signal strength and
volume confirmation.

Examples:
  scanner scan --symbols AAPL,MSFT,NVDA
  scanner scan --patterns hammer,doji --min-confidence 70 --format json
  scanner patterns
  scanner schedule --at 09:00`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show debug logging")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the results",
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&symbolList, "symbols", "", "comma-separated symbols (default: config or built-in universe)")
	scanCmd.Flags().StringVar(&symbolFile, "symbol-file", "", "file with one symbol per line")
	scanCmd.Flags().StringSliceVar(&patternList, "patterns", nil, "patterns to scan (default: config)")
	scanCmd.Flags().IntVar(&lookback, "lookback", 0, "trailing bars to examine per symbol")
	scanCmd.Flags().IntVar(&minConfidence, "min-confidence", -1, "confidence threshold for reported results")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "parallel scan workers")
	scanCmd.Flags().StringVar(&format, "format", "", "output format: table, json")
	scanCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for saved reports")
	scanCmd.Flags().BoolVar(&saveCSV, "csv", false, "also save results as CSV")
	scanCmd.Flags().BoolVar(&sendEmail, "email", false, "email the results (requires email config)")

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "List supported patterns and their reliability scores",
		RunE:  runPatterns,
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the scan daily at a fixed time",
		RunE:  runSchedule,
	}
	scheduleCmd.Flags().String("at", "", "daily scan time, HH:MM (default: config)")

	rootCmd.AddCommand(scanCmd, patternsCmd, scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// loadConfig merges the YAML config with command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if symbolList != "" {
		cfg.Scanner.Symbols = symbols.ParseList(symbolList)
	}
	if symbolFile != "" {
		cfg.Scanner.SymbolFile = symbolFile
	}
	if cfg.Scanner.SymbolFile != "" && symbolList == "" {
		syms, err := symbols.LoadFile(cfg.Scanner.SymbolFile)
		if err != nil {
			return nil, err
		}
		cfg.Scanner.Symbols = syms
	}
	if len(patternList) > 0 {
		cfg.Scanner.Patterns = patternList
	}
	if lookback > 0 {
		cfg.Scanner.Lookback = lookback
	}
	if cmd.Flags().Changed("min-confidence") {
		cfg.Scanner.MinConfidence = minConfidence
	}
	if workers > 0 {
		cfg.Scanner.Workers = workers
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if sendEmail {
		cfg.Email.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return scanOnce(ctx, cfg, logger)
}

func scanOnce(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	series, err := fetchSeries(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no market data fetched for any symbol")
	}

	catalog := pattern.DefaultCatalog()
	recognizer := pattern.NewRecognizer(
		pattern.NewLibraryDelegate(),
		pattern.RecognizerConfig{Penetration: cfg.Scanner.Penetration},
		logger,
	)
	coordinator := scan.NewCoordinator(catalog, recognizer, scan.Config{
		Lookback:      cfg.Scanner.Lookback,
		MinConfidence: cfg.Scanner.MinConfidence,
		Workers:       cfg.Scanner.Workers,
	}, logger)

	ids := make([]pattern.ID, len(cfg.Scanner.Patterns))
	for i, p := range cfg.Scanner.Patterns {
		ids[i] = pattern.ID(p)
	}

	started := time.Now()
	results, breakdown, err := coordinator.Scan(series, ids)
	if err != nil {
		return err
	}
	summary := scan.Summarize(results, breakdown)
	logger.Info().Dur("elapsed", time.Since(started)).Msg("scan finished")

	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Results []scan.Result `json:"results"`
			Summary scan.Summary  `json:"summary"`
		}{results, summary}); err != nil {
			return err
		}
	} else {
		report.PrintResults(os.Stdout, results)
		report.PrintSummary(os.Stdout, summary)
	}

	writer := report.NewWriter(cfg.Output.Dir)
	path, err := writer.SaveJSON(results, summary)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	logger.Info().Str("path", path).Msg("report saved")
	if saveCSV {
		csvPath, err := writer.SaveCSV(results)
		if err != nil {
			return fmt.Errorf("saving csv: %w", err)
		}
		logger.Info().Str("path", csvPath).Msg("csv saved")
	}

	if cfg.Email.Enabled {
		mailer := notify.NewMailer(notify.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		}, logger)
		if err := mailer.SendAlert(results, summary); err != nil {
			logger.Error().Err(err).Msg("alert email failed")
		}
	}

	return nil
}

func fetchSeries(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (map[string][]bar.Bar, error) {
	client := marketdata.NewClient(marketdata.Config{
		Range:    cfg.Data.Range,
		Interval: cfg.Data.Interval,
		Timeout:  cfg.Data.Timeout,
		Workers:  cfg.Data.Workers,
	}, logger)

	syms := cfg.Scanner.Symbols
	progress := progressbar.NewOptions(len(syms),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	series := client.FetchAll(ctx, syms, func(done, total int) {
		_ = progress.Set(done)
	})
	fmt.Fprintln(os.Stderr)
	return series, ctx.Err()
}

func runPatterns(cmd *cobra.Command, args []string) error {
	catalog := pattern.DefaultCatalog()

	defs := make([]pattern.Definition, 0)
	for _, id := range catalog.IDs() {
		if d, ok := catalog.Get(id); ok {
			defs = append(defs, d)
		}
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Reliability != defs[j].Reliability {
			return defs[i].Reliability > defs[j].Reliability
		}
		return defs[i].ID < defs[j].ID
	})

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Name", "Direction", "Reliability"}),
	)
	for _, d := range defs {
		table.Append([]string{
			string(d.ID),
			d.Name,
			string(d.Direction),
			fmt.Sprintf("%d", d.Reliability),
		})
	}
	table.Render()
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	at := cfg.Schedule.At
	if v, _ := cmd.Flags().GetString("at"); v != "" {
		at = v
	}
	scheduler, err := sched.New(at, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("at", at).Msg("scheduler started")
	if err := scheduler.Run(ctx, func(ctx context.Context) error {
		return scanOnce(ctx, cfg, logger)
	}); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
