package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stockrating/config"
	"stockrating/services"
	"stockrating/services/rating"
	"stockrating/types"
	"stockrating/utils/helpers"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

var analyzeIntent string

var analyzeCMD = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Rate a single stock from the command line",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCMD.Flags().StringVarP(&analyzeIntent, "intent", "i", string(types.IntentBuy), "buy or sell")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if _, err := rating.ParseIntent(analyzeIntent); err != nil {
		return err
	}
	symbol := helpers.NormalizeSymbol(args[0])
	if !helpers.ValidSymbol(symbol) {
		return fmt.Errorf("invalid stock symbol %q", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}
	defer zap.L().Sync()

	cleanup := setupServices(cmd.Context(), cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	snapshot, err := services.MetricsService.FetchSnapshot(ctx, symbol)
	if err != nil {
		return err
	}
	evaluation, err := rating.Evaluate(*snapshot, analyzeIntent)
	if err != nil {
		return err
	}
	services.EventService.PublishAnalysis(symbol, evaluation)

	fmt.Fprintln(cmd.OutOrStdout(), renderEvaluation(symbol, evaluation))
	return nil
}

func deltaStyle(v int) lipgloss.Style {
	switch {
	case v > 0:
		return positiveStyle
	case v < 0:
		return negativeStyle
	}
	return neutralStyle
}

func renderEvaluation(symbol string, evaluation types.Evaluation) string {
	var b strings.Builder
	for _, c := range evaluation.Breakdown {
		fmt.Fprintf(&b, "%-18s %s\n", c.Analysis, deltaStyle(c.Delta).Render(fmt.Sprintf("%+d", c.Delta)))
	}
	fmt.Fprintf(&b, "%-18s %s", "total", deltaStyle(evaluation.Rating).Render(fmt.Sprintf("%+d", evaluation.Rating)))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s (%s)", symbol, evaluation.Intent)),
		boxStyle.Render(b.String()),
		evaluation.Message(),
	)
}
