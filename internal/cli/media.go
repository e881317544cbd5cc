package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rooklite/rook/internal/domain/analysis"
)

var (
	briefText string
	briefFile string
	briefOut  string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a voice recording to text",
	Long: `Transcribe sends a recorded voice note to the backend and prints the
text, the same way the dashboard's microphone button fills an input.

Example:
  rook transcribe note.webm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		mimeType := audioMIME(filepath.Ext(args[0]))

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.analysis.Transcribe(ctx, analysis.EncodeDataURI(mimeType, data))
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

// audioMIME prefers audio types for containers that also carry video.
func audioMIME(ext string) string {
	switch strings.ToLower(ext) {
	case ".webm":
		return "audio/webm"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "audio/webm"
}

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Read a summary aloud as an audio brief",
	Long: `Brief turns text into speech and writes the audio file.

Example:
  rook brief --text "Your headline buries the value prop." --out brief.wav
  rook history show 1735689600000 --json | jq -r .summary | rook brief --file - --out brief.wav`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := briefText
		if briefFile != "" {
			var err error
			if text, err = readText(cmd.InOrStdin(), briefFile); err != nil {
				return err
			}
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		uri, err := a.analysis.SynthesizeBrief(ctx, text)
		if err != nil {
			return fmt.Errorf("brief failed: %w", err)
		}
		mimeType, audio, err := analysis.DecodeDataURI(uri)
		if err != nil {
			return err
		}
		out := briefOut
		if out == "" {
			out = "brief" + extensionFor(mimeType)
		}
		if err := os.WriteFile(out, audio, 0o644); err != nil {
			return fmt.Errorf("write audio: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", out, mimeType, len(audio))
		return nil
	},
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func init() {
	rootCmd.AddCommand(transcribeCmd, briefCmd)

	briefCmd.Flags().StringVar(&briefText, "text", "", "text to read aloud")
	briefCmd.Flags().StringVar(&briefFile, "file", "", "read text from a file (- for stdin)")
	briefCmd.Flags().StringVarP(&briefOut, "out", "o", "", "output audio file (default brief.<ext>)")
}
