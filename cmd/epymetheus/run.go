package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shishaboy/epymetheus/internal/benchmark"
	"github.com/shishaboy/epymetheus/internal/config"
	"github.com/shishaboy/epymetheus/internal/dataset"
	"github.com/shishaboy/epymetheus/internal/logger"
	"github.com/shishaboy/epymetheus/internal/market"
	"github.com/shishaboy/epymetheus/internal/metrics"
	"github.com/shishaboy/epymetheus/internal/report"
	"github.com/shishaboy/epymetheus/internal/storage/archive"
	"github.com/shishaboy/epymetheus/internal/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest",
	Long:  "Load a price universe, generate benchmark trades, execute them and report performance",
	RunE:  runBacktest,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Defaults()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Must(debug)
	defer log.Sync()

	u, err := loadUniverse(cfg, log)
	if err != nil {
		return err
	}

	opts := []strategy.Option{strategy.WithLogger(log)}
	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		opts = append(opts, strategy.WithMetrics(reg))
	}

	s := strategy.New(benchmark.RandomTrader{
		NTrades: cfg.Strategy.Trades,
		MaxLegs: cfg.Strategy.MaxLegs,
		MaxLot:  cfg.Strategy.MaxLot,
		Seed:    cfg.Strategy.Seed,
	}, opts...)

	ctx := context.Background()
	if err := s.Run(ctx, u); err != nil {
		return err
	}

	r, err := report.Build(s)
	if err != nil {
		return err
	}

	fmt.Println("=== epymetheus backtest ===")
	fmt.Printf("Strategy:     %s\n", r.Strategy)
	fmt.Printf("Universe:     %d bars x %d assets\n", r.Bars, r.Assets)
	fmt.Printf("Trades:       %d (%d wins / %d losses, %.1f%% win rate)\n",
		r.Stats.TotalTrades, r.Stats.WinningTrades, r.Stats.LosingTrades, r.Stats.WinRate)
	fmt.Printf("Total P&L:    %.4f\n", r.Stats.TotalPnL)
	fmt.Printf("Max drawdown: %.4f\n", r.Stats.MaxDrawdown)
	fmt.Printf("Sharpe:       %.4f\n", r.Stats.SharpeRatio)

	if cfg.Output.Archive.Enabled {
		if err := archiveResults(ctx, cfg, s, r, log); err != nil {
			return err
		}
	}

	return nil
}

func loadUniverse(cfg *config.Config, log *zap.Logger) (*market.Universe, error) {
	switch cfg.Data.Source {
	case "csv":
		log.Info("loading universe", zap.String("csv", cfg.Data.CSVPath))
		return dataset.LoadCSV(cfg.Data.CSVPath)
	default:
		rw := cfg.Data.RandomWalk
		log.Info("generating random-walk universe",
			zap.Int("bars", rw.Bars),
			zap.Int("assets", rw.Assets),
			zap.Int64("seed", rw.Seed),
		)
		return dataset.RandomWalk(rw.Bars, rw.Assets, rw.Volatility, rw.Seed)
	}
}

func newArchive(cfg config.ArchiveConfig) (archive.Storage, error) {
	if cfg.Type == "s3" {
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	}
	return archive.NewLocalFS(cfg.Path)
}

func archiveResults(ctx context.Context, cfg *config.Config, s *strategy.Strategy, r *report.Report, log *zap.Logger) error {
	store, err := newArchive(cfg.Output.Archive)
	if err != nil {
		return err
	}

	run := fmt.Sprintf("%s-%s", r.Strategy, time.Now().UTC().Format("20060102T150405Z"))

	netExposure, err := s.SeriesExposure(true)
	if err != nil {
		return err
	}
	grossExposure, err := s.SeriesExposure(false)
	if err != nil {
		return err
	}
	pnl, err := s.SeriesPnL()
	if err != nil {
		return err
	}

	artifacts := map[string]string{
		"trades.csv": report.RenderCSV(r.Trades),
		"report.md":  report.RenderMarkdown(r),
		"series.csv": report.RenderSeriesCSV(
			s.Universe().Bars(),
			[]string{"net_exposure", "gross_exposure", "pnl"},
			[][]float64{netExposure, grossExposure, pnl},
		),
	}

	for name, content := range artifacts {
		if err := store.Store(ctx, run, name, []byte(content)); err != nil {
			return fmt.Errorf("archiving %s: %w", name, err)
		}
	}

	log.Info("results archived",
		zap.String("run", run),
		zap.String("type", cfg.Output.Archive.Type),
		zap.Int("artifacts", len(artifacts)),
	)
	return nil
}
