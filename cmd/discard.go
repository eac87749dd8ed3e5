package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Drops the staged draft
var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Drops the staged metadata version without anchoring it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return discard()
	},
}

func init() {
	RootCmd.AddCommand(discardCmd)
}

func discard() error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	dropped, err := eng.Discard()
	if err != nil {
		return err
	}
	if !dropped {
		_, err = fmt.Fprintln(fOut, "Nothing staged")
		return err
	}
	_, err = fmt.Fprintln(fOut, "Staged draft discarded")
	return err
}
