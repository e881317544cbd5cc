package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rooklite/rook/internal/application/media"
	"github.com/rooklite/rook/internal/domain/analysis"
)

var (
	analyzeMode    string
	analyzeText    string
	analyzeTextB   string
	analyzeFile    string
	analyzeMedia   []string
	analyzeMediaB  []string
	analyzeJSON    bool
	analyzeOut     string
	analyzeNoSave  bool
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an audit, idea or compare analysis",
	Long: `Analyze sends your input to the generative backend and prints the report.

Modes:
  audit    critique landing page copy and rewrite it
  idea     turn a product idea into a go-to-market strategy
  compare  score your page (A) against a competitor (B)

Example:
  rook analyze --mode audit --text "Headline: Build faster..." --media hero.png
  rook analyze --mode compare --text "$(cat mine.txt)" --text-b "$(cat theirs.txt)"
  rook analyze --mode idea --file idea.txt --json --out strategy.json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "audit", "analysis mode (audit, idea, compare)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "primary input text")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read primary input text from a file (- for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeTextB, "text-b", "", "competitor text (compare mode)")
	analyzeCmd.Flags().StringSliceVar(&analyzeMedia, "media", nil, "image or video files for the primary input")
	analyzeCmd.Flags().StringSliceVar(&analyzeMediaB, "media-b", nil, "image or video files for the competitor (compare mode)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON report")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-history", false, "do not record the result in history")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := analysis.ParseMode(analyzeMode)
	if err != nil {
		return err
	}
	text := analyzeText
	if analyzeFile != "" {
		if text, err = readText(cmd.InOrStdin(), analyzeFile); err != nil {
			return err
		}
	}

	// Text rules are checked before any backend is opened or media is read.
	in := analysis.Input{PrimaryText: text, SecondaryText: analyzeTextB}
	if err := in.Validate(mode); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	enc := media.NewEncoder(cfg.Media.Concurrency)
	if in.MediaA, err = encodeFiles(ctx, enc, analyzeMedia); err != nil {
		return err
	}
	if in.MediaB, err = encodeFiles(ctx, enc, analyzeMediaB); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing (%s) with %s...\n", mode, cfg.AI.Provider)
	}
	res, err := a.analysis.Analyze(ctx, mode, in)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if !analyzeNoSave {
		saved, err := a.history.Record(ctx, res, in)
		if err != nil {
			logger.Warn("history record failed", slog.Any("err", err))
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Saved to history as %s\n", saved.ID)
		}
	}

	return writeOutput(cmd.OutOrStdout(), analyzeOut, func(w io.Writer) error {
		if analyzeJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return renderResult(w, res)
	})
}

// encodeFiles reads the given paths in parallel. Items come back in
// completion order, as they do when attaching in the dashboard.
func encodeFiles(ctx context.Context, enc *media.Encoder, paths []string) ([]analysis.MediaItem, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	files := make([]media.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, media.FromPath(p))
	}
	var items []analysis.MediaItem
	err := enc.EncodeAll(ctx, files, func(item analysis.MediaItem) {
		items = append(items, item)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func readText(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// writeOutput sends fn's output to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()
	return fn(f)
}
