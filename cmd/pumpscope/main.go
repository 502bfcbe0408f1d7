package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pumpscope/internal/blockchain/solbc"
	"pumpscope/internal/bundle"
	"pumpscope/internal/config"
	"pumpscope/internal/domain"
	"pumpscope/internal/export"
	"pumpscope/internal/pumpapi"
	"pumpscope/internal/pumpfun"
	"pumpscope/internal/utils"
)

const usage = `pumpscope - pump.fun bonding curve and trade bundle inspector

Usage:
  pumpscope [flags] price <mint>                    show spot price and token metadata
  pumpscope [flags] curve <mint>                    show bonding progress and graduation state
  pumpscope [flags] bundles <mint> [bundle flags]   analyze same-slot trade bundles
  pumpscope [flags] watch <mint> [watch flags]      live curve view

Flags:
  -config path    config file (optional)
  -debug          enable debug logging

Bundle flags:
  -export csv|json   write the analysis to the export directory
  -min-sol n         skip bundles below n SOL volume
  -top n             number of bundles to display (default 15)

Watch flags:
  -interval d        refresh interval (default 5s)
`

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *pumpfun.Service
	analyzer *bundle.Analyzer
	exporter *export.BundleExporter
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, mint := args[0], args[1]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.InitLogger(*debug || cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, logger)

	switch command {
	case "price":
		err = a.runPrice(ctx, mint)
	case "curve":
		err = a.runCurve(ctx, mint)
	case "bundles":
		err = a.runBundles(ctx, mint, args[2:])
	case "watch":
		err = a.runWatch(ctx, mint, args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed",
			zap.String("command", command),
			zap.String("mint", mint),
			zap.String("code", domain.CodeOf(err)),
			zap.Error(err))
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", domain.CodeOf(err), err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	chain := solbc.NewClient(cfg.RPCURL, logger)
	api := pumpapi.NewClient(pumpapi.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    time.Duration(cfg.APITimeoutMs) * time.Millisecond,
		RateLimit:  cfg.APIRateLimit,
		Retries:    cfg.Retries,
		RetryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
	}, logger)

	analyzer := bundle.NewAnalyzer(api, logger)
	analyzer.SetPageSize(cfg.PageSize)

	return &app{
		cfg:      cfg,
		logger:   logger,
		service:  pumpfun.NewService(chain, api, logger),
		analyzer: analyzer,
		exporter: export.NewBundleExporter(logger),
	}
}

func (a *app) runPrice(ctx context.Context, mint string) error {
	quote, err := a.service.GetPrice(ctx, mint)
	if err != nil {
		return err
	}
	fmt.Println(renderPrice(quote))
	return nil
}

func (a *app) runCurve(ctx context.Context, mint string) error {
	report, err := a.service.GetBondingCurve(ctx, mint)
	if err != nil {
		return err
	}
	fmt.Println(renderCurve(report))
	return nil
}

func (a *app) runBundles(ctx context.Context, mint string, extra []string) error {
	fs := flag.NewFlagSet("bundles", flag.ExitOnError)
	exportFormat := fs.String("export", "", "export format: csv or json")
	minSol := fs.Float64("min-sol", 0, "skip bundles below this SOL volume")
	top := fs.Int("top", 15, "number of bundles to display")
	if err := fs.Parse(extra); err != nil {
		return err
	}

	result, err := a.analyzer.Analyze(ctx, mint)
	if err != nil {
		return err
	}
	fmt.Println(renderBundles(result, *top))

	if *exportFormat != "" {
		path, err := a.exporter.ExportResult(result, export.ExportOptions{
			Format:       export.ExportFormat(*exportFormat),
			OutputDir:    a.cfg.ExportDir,
			MinSolAmount: *minSol,
		})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("exported to %s\n", path)
	}
	return nil
}

func (a *app) runWatch(ctx context.Context, mint string, extra []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", 5*time.Second, "refresh interval")
	if err := fs.Parse(extra); err != nil {
		return err
	}

	model := newWatchModel(a.service, mint, *interval)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
