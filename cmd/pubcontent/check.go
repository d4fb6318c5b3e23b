package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
)

var (
	checkJSON   bool
	checkNoFail bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every blog entry and print the report",
	Long: `check loads the blog collection, validates each entry's front matter
and prints every violation. It exits non-zero when any entry is invalid,
so a build can abort before rendering.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := pubcontent.CheckCollection(appConfig.ContentDir, appConfig.CheckOptions(nil)...)
		if err != nil {
			return err
		}
		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printReport(os.Stdout, report)
		}
		if !report.OK() && !checkNoFail {
			return fmt.Errorf("%d of %d %s entries are invalid",
				len(report.Failures), len(report.Failures)+len(report.Entries), report.Collection)
		}
		return nil
	},
}

func printReport(w io.Writer, r *pubcontent.Report) {
	for _, f := range r.Failures {
		fmt.Fprintf(w, "✗ %s\n", f.Path)
		for _, fe := range f.Errors {
			fmt.Fprintf(w, "    %s\n", fe.Error())
		}
	}
	for _, wr := range r.Warnings {
		fmt.Fprintf(w, "! %s: %s\n", wr.Slug, wr.Message)
	}
	fmt.Fprintf(w, "%s: %d valid, %d invalid, %d warnings\n",
		r.Collection, len(r.Entries), len(r.Failures), len(r.Warnings))
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().BoolVar(&checkNoFail, "no-fail", false, "exit zero even when entries are invalid")
	checkCmd.Flags().Bool("cover-images", false, "verify that local cover images exist and decode")
	rootCmd.AddCommand(checkCmd)
}
