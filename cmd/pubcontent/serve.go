package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
	"github.com/eringen/pubcontent/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation report and re-check on changes",
	Long: `serve indexes the blog collection, then serves the validation report
API and re-checks the collection whenever a content file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.WithComponent("serve")
		app := pubcontent.New(appConfig)
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", app.Config.Addr).Msg("serving validation report")
			errCh <- app.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Echo.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Bool("cover-images", false, "verify that local cover images exist and decode")
	rootCmd.AddCommand(serveCmd)
}
