package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "epymetheus",
	Short: "epymetheus - multi-asset backtesting engine",
	Long: `epymetheus backtests declared trades against a price universe:
each trade's close bar is resolved under take/stop/shut conditions and
results are aggregated into strategy-level exposure and P&L series.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
