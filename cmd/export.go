package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/export"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

var (
	exportData   dataFlags
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the filtered view as CSV or XLSX",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := exportData.open(args)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		name, err := sess.Export(export.Format(exportFormat), &buf, time.Now())
		if err != nil {
			return err
		}
		path := exportOutput
		if path == "" {
			path = name
		}
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportData.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatCSV), "export format: csv|xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default data_YYYYMMDD_HHMMSS.<ext>)")
}
