package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cryptosim",
	Short: "A crypto paper-trading simulator",
	Long: `Cryptosim is a cryptocurrency paper-trading simulator written in Go.

It provides tools for:
  - Simulated spot, margin and futures trading with virtual balances
  - Random-walk price feeds over a built-in instrument catalog
  - Market and limit orders with stop-loss and take-profit triggers
  - Price alerts and forced margin liquidation
  - Trade and balance journaling to SQLite
  - Session persistence across runs

Complete documentation is available at https://github.com/rustyeddy/cryptosim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
