package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the cryptosim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cryptosim version %s\n", version)
		fmt.Println("A cryptocurrency paper-trading simulator")
		fmt.Println("https://github.com/rustyeddy/cryptosim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
