package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pubcontent version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pubcontent %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
