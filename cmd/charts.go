package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/chart"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

var chartsJSON bool

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "List chart kinds and their axis requirements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs := chart.Requirements()
		if chartsJSON {
			b, err := utils.PrettyJSON(reqs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tREQUIRES Y\tX\tY\tHINT")
		for _, r := range reqs {
			fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\n", r.Kind, r.RequiresY, r.XType, r.YType, r.Hint)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().BoolVar(&chartsJSON, "json", false, "print JSON")
}
