package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rooklite/rook/internal/config"
)

var (
	cfgFile string
	verbose bool

	// Version is set at build time with -ldflags "-X ...cli.Version=...".
	Version = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rook",
	Short: "Rook Lite - marketing analysis assistant",
	Long: `Rook Lite audits landing page copy, turns product ideas into launch
strategies, and compares your positioning against a competitor.

Run "rook serve" for the dashboard API, or use the analyze, history,
transcribe and brief commands directly.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rook %s\n", Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or $HOME/.rook/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("provider", "", "generative backend (gemini, openai)")
	rootCmd.PersistentFlags().String("model", "", "model for structured analyses")
	rootCmd.PersistentFlags().String("history-backend", "", "history storage (file, memory, mysql, postgres, minio)")

	// Bind flags to viper
	_ = viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("history.backend", rootCmd.PersistentFlags().Lookup("history-backend"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, config file, ROOK_* env and bound flags.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWith(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", slog.String("path", used))
	}
	return cfg, logger, nil
}
