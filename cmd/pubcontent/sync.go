package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Validate the blog collection and rebuild the SQLite index",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := pubcontent.New(appConfig)
		if err := app.Open(); err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Sync()
		if err != nil {
			return err
		}
		printReport(os.Stdout, report)
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("cover-images", false, "verify that local cover images exist and decode")
	rootCmd.AddCommand(syncCmd)
}
