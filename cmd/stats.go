package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

var (
	statsData   dataFlags
	statsOutput string
	statsCorr   bool
	statsJSON   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize the filtered view: describe table, cardinalities and KPIs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := statsData.open(args)
		if err != nil {
			return err
		}
		sum, err := sess.Stats()
		if err != nil {
			return err
		}
		var out []byte
		if statsJSON {
			payload := map[string]any{"summary": sum}
			if statsCorr {
				corr, err := sess.Correlation()
				if err != nil {
					return err
				}
				payload["correlation"] = corr
			}
			if out, err = utils.PrettyJSON(payload); err != nil {
				return err
			}
		} else {
			md := sum.Markdown()
			if statsCorr && len(sum.Numeric) >= 2 {
				corr, err := sess.Correlation()
				if err != nil {
					return err
				}
				md += "\n" + corr.Markdown()
			}
			out = []byte(md)
		}

		if statsOutput != "" {
			if err := utils.SafeWriteFile(statsOutput, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", statsOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsData.register(statsCmd)
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "optional path to write the summary")
	statsCmd.Flags().BoolVar(&statsCorr, "correlations", false, "include Pearson correlations among numeric columns")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of Markdown")
}
