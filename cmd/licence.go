package cmd

import (
	"github.com/spf13/cobra"
)

// Base command for licence operations
var licenceCmd = &cobra.Command{
	Use:   "licence",
	Short: "Licence operations",
}

func init() {
	RootCmd.AddCommand(licenceCmd)
}
