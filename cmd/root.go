package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCMD = &cobra.Command{
	Use:   "stockrating",
	Short: "Heuristic stock rating service",
	Long: `Rates a stock for a buy or sell intent by combining market, macro and
sentiment indicators into a single score. Without a subcommand the HTTP
server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCMD.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCMD.AddCommand(serveCMD, analyzeCMD)
}
