package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/infra/ai/prompt"
)

var demoCmd = &cobra.Command{
	Use:       "demo <mode>",
	Short:     "Print sample input for a mode",
	Long:      `Demo prints the sample content the dashboard loads with "Try demo".`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"audit", "idea", "compare"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := analysis.ParseMode(args[0])
		if err != nil {
			return err
		}
		in, err := prompt.Demo(mode)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if mode == analysis.ModeCompare {
			fmt.Fprintf(out, "--- A (yours) ---\n%s\n\n--- B (competitor) ---\n%s\n", in.PrimaryText, in.SecondaryText)
			return nil
		}
		fmt.Fprintln(out, in.PrimaryText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
