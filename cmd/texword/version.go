package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of texword",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("texword %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
