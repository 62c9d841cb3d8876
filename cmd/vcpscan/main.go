package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vcpscan/internal/app"
	"vcpscan/internal/config"
	"vcpscan/internal/daemon"
	"vcpscan/internal/scanner"
	"vcpscan/internal/vcp"
	"vcpscan/internal/web"
	"vcpscan/pkg/model"
)

var (
	cfgFile     string
	symbolList  string
	symbolsFile string
	workers     int
	limit       int
	minScore    float64
	reversal    float64
	format      string
	verbose     bool
	port        int
	runOnStart  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vcpscan",
		Short: "Volatility contraction pattern scanner for NSE stocks",
		Long: `vcpscan detects volatility contraction patterns (VCP): an uptrend
followed by progressively shallower pullbacks on drying volume, coiling
under a pivot. For each setup it scores the base, checks for a volume
breakout, derives a trading plan, and proves the setup against the
Minervini-style criteria checklist.

Examples:
  vcpscan --symbols RELIANCE,TITAN,INFY
  vcpscan --min-score 70 --format json
  vcpscan serve --port 8000`,
		RunE: runScan,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.Flags().StringVar(&symbolList, "symbols", "", "comma-separated symbols to scan (default: full universe)")
	rootCmd.Flags().StringVar(&symbolsFile, "symbols-file", "", "file with one symbol per line")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = config value)")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "cap the universe at the first N symbols")
	rootCmd.Flags().Float64Var(&minScore, "min-score", 0, "only show setups scoring at least this")
	rootCmd.Flags().Float64Var(&reversal, "reversal", 0, "swing reversal threshold percent (0 = config value)")
	rootCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "show skipped symbols and their reasons")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web API with scheduled scans",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	serveCmd.Flags().IntVar(&port, "port", 0, "HTTP port (0 = config value)")
	serveCmd.Flags().BoolVar(&runOnStart, "scan-on-start", false, "run one scan immediately at startup")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if workers > 0 {
		cfg.Scanner.Workers = workers
	}
	if reversal > 0 {
		cfg.VCP.ReversalPct = reversal
	}
	if port > 0 {
		cfg.Web.Port = port
	}
	return app.New(cfg)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Stopping scan...")
		cancel()
	}()

	var explicit []string
	if symbolList != "" {
		explicit = strings.Split(symbolList, ",")
	}

	if explicit == nil && symbolsFile == "" {
		fmt.Println("Loading symbol universe...")
	}
	stocks, err := a.ResolveUniverse(ctx, explicit, symbolsFile, limit)
	if err != nil {
		return fmt.Errorf("resolving universe: %w", err)
	}
	if len(stocks) == 0 {
		return fmt.Errorf("no stocks to scan")
	}

	fmt.Printf("Scanning %d stocks for volatility contraction patterns...\n\n", len(stocks))

	bar := progressbar.NewOptions(len(stocks),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	result, err := a.RunScan(ctx, stocks, func(scanned, total int) {
		bar.Set(scanned)
	})
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if format == "json" {
		return outputJSON(result)
	}
	return outputTable(result)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := daemon.New(ctx, a)
	if err := d.Register(a.Config.Daemon.ScanCron); err != nil {
		return err
	}
	d.Start()
	defer d.Stop()

	if runOnStart {
		go d.RunNow()
	}

	server := web.NewServer(a)
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(a.Config.Web.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		fmt.Println("\nShutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	}
}

func outputJSON(result *model.ScanResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputTable(result *model.ScanResult) error {
	setups := scanner.Setups(result)
	if minScore > 0 {
		filtered := setups[:0]
		for _, o := range setups {
			if o.Setup.Score >= minScore {
				filtered = append(filtered, o)
			}
		}
		setups = filtered
	}

	if len(setups) == 0 {
		fmt.Println("No volatility contraction setups found.")
		fmt.Printf("Scanned %d stocks in %s\n", result.TotalScanned, result.Duration.Round(time.Second))
		return nil
	}

	fmt.Printf("Found %d setups:\n\n", len(setups))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Name", "Score", "Legs", "Depth", "Dry-Up", "Pivot", "Dist", "Verdict", "Breakout"}),
	)

	for _, o := range setups {
		setup := o.Setup

		name := setup.StockName
		if len(name) > 18 {
			name = name[:18] + "..."
		}

		verdict := "-"
		if o.Proof != nil {
			verdict = fmt.Sprintf("%s %d/%d", o.Proof.Verdict, o.Proof.PassedCount, o.Proof.TotalCount)
		}

		breakout := "-"
		if o.Breakout != nil {
			breakout = fmt.Sprintf("%s %.0f", o.Breakout.Classification, o.Breakout.ConfirmationScore)
		}

		table.Append([]string{
			setup.Symbol,
			name,
			fmt.Sprintf("%.1f", setup.Score),
			fmt.Sprintf("%d", len(setup.Legs)),
			fmt.Sprintf("%.1f%%", setup.TotalBaseDepthPct),
			fmt.Sprintf("%.0f%%", setup.VolumeDryUpPct),
			fmt.Sprintf("%.2f", setup.PivotPrice),
			fmt.Sprintf("%.1f%%", setup.DistanceFromPivotPct),
			verdict,
			breakout,
		})
	}

	table.Render()

	// Detail block for the top setups
	fmt.Println("\n--- Setup Details ---")
	count := 0
	for _, o := range setups {
		if count >= 5 {
			break
		}
		printSetupDetail(o)
		count++
	}

	if verbose {
		printSkips(result)
	}

	fmt.Printf("\nScanned %d stocks in %s\n", result.TotalScanned, result.Duration.Round(time.Second))
	return nil
}

func printSetupDetail(o model.ScanOutcome) {
	setup := o.Setup

	fmt.Printf("\n[%s] %s\n", setup.Symbol, setup.StockName)
	fmt.Printf("  Contractions: %s over %d sessions\n", vcp.FormatDepths(setup.Legs), setup.BaseDurationDays)
	fmt.Printf("  Close: %.2f | Pivot: %.2f (%.1f%% below) | Volume dry-up: %.0f%%\n",
		setup.CurrentPrice, setup.PivotPrice, setup.DistanceFromPivotPct, setup.VolumeDryUpPct)
	fmt.Printf("  SMA20: %.2f | SMA50: %.2f | RS percentile: %.0f\n",
		setup.SMA20, setup.SMA50, setup.RSPercentile)
	for _, caveat := range setup.Caveats {
		fmt.Printf("  note: %s\n", caveat)
	}

	if o.Plan != nil {
		fmt.Printf("  Plan: entry %.2f | stop %.2f (%.1f%% risk) | targets %.2f / %.2f / %.2f\n",
			o.Plan.Entry, o.Plan.StopLoss, o.Plan.RiskPct,
			o.Plan.Target1, o.Plan.Target2, o.Plan.Target3)
	}
	if o.Breakout != nil {
		fmt.Printf("  Breakout: %.2f on %.1fx volume [%s %.0f]\n",
			o.Breakout.BreakoutPrice, o.Breakout.RelativeVolume,
			strings.ToUpper(o.Breakout.Classification), o.Breakout.ConfirmationScore)
	}
	fmt.Printf("  >> Score: %.1f\n", setup.Score)
}

func printSkips(result *model.ScanResult) {
	counts := map[string]int{}
	for _, o := range result.Outcomes {
		if o.Error != "" {
			counts[o.Error]++
		}
	}
	if len(counts) == 0 {
		return
	}
	fmt.Println("\n--- Skipped Symbols ---")
	for kind, n := range counts {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	if verbose {
		for _, o := range result.Outcomes {
			if o.Error != "" {
				fmt.Printf("    %s: %s\n", o.Symbol, o.Error)
			}
		}
	}
}
