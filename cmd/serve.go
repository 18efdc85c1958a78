package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/logging"
	"github.com/KaramelBytes/dataloom-cli/internal/server"
	"github.com/KaramelBytes/dataloom-cli/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := session.NewStore(session.Options{
			DefaultRowLimit: c.DefaultRowLimit,
			PreviewRows:     c.PreviewRows,
			ClassifierSize:  16,
		}, c.SessionTTL())
		go store.Run(ctx)

		load := dataset.DefaultLoadOptions()
		load.Delimiter = c.Delimiter()
		srv := server.New(store, server.Options{
			Addr:          addr,
			MaxUploadMB:   c.MaxUploadMB,
			DefaultSample: c.SampleDataset,
			Load:          load,
		})
		logging.LogInfo("starting server", map[string]interface{}{
			"addr":          addr,
			"max_upload_mb": c.MaxUploadMB,
			"session_ttl":   c.SessionTTL().String(),
		})
		if err := srv.Listen(ctx); err != nil {
			logging.LogError("server stopped", err, nil)
			return err
		}
		logging.LogInfo("server stopped", map[string]interface{}{"sessions": store.Len()})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config addr)")
}
