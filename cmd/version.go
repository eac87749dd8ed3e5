package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridable at link time
var VERSION = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version number of prov",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(fOut, "prov version %s\n", VERSION)
		return err
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
