// snapshot dumps the aggregated data set to stdout, for debugging the
// content store without running the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cryptopulse/internal/di"
	"cryptopulse/internal/infra/config"
	"cryptopulse/internal/infra/logger"
	"cryptopulse/internal/usecase"
)

var (
	version = "dev"

	days     int
	channels []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Dump the aggregated video summary data set",
	Version: version,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the date -> channel -> records mapping as JSON",
	RunE:  runDump,
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Print the daily sentiment trend series as JSON",
	RunE:  runTrend,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&days, "days", 30, "maximum number of days to aggregate")
	trendCmd.Flags().StringSliceVar(&channels, "channels", nil, "channel handles for the selected average (default all)")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(trendCmd)
}

func buildComponents() (*di.ApplicationComponents, error) {
	cfg := config.Load()
	log := logger.New()
	return di.NewApplicationComponents(cfg, log)
}

func runDump(cmd *cobra.Command, args []string) error {
	components, err := buildComponents()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	set := components.Aggregator.GetAll(ctx, days)
	return printJSON(set)
}

func runTrend(cmd *cobra.Command, args []string) error {
	components, err := buildComponents()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	set := components.Aggregator.GetAll(ctx, days)
	return printJSON(usecase.TrendSeries(set.Flatten(), channels))
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
