// Package serve handles the HTTP server command
package serve

import (
	"os/signal"
	"syscall"

	"fjacquet/ynab-csv/cmd/root"
	"fjacquet/ynab-csv/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report generation over HTTP",
	Long: `Start an HTTP server. POST a category list (JSON, YAML, CSV or HTML) to
/api/reports and receive the CSV report as an attachment. GET /health
reports liveness.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&address, "address", "", "Listen address (default from server.address)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.NewContainer()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.Warnf("Failed to close container: %v", err)
		}
	}()

	if root.AppConfig.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(c, server.Options{
		Address:        root.AppConfig.Server.Address,
		AllowedOrigins: root.AppConfig.Server.AllowedOrigins,
	})
	return srv.Run(ctx)
}
