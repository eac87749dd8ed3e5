package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Displays the staged draft, if any
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Displays the staged metadata version, if there is one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return status()
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func status() error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	draft, staged, err := eng.Status()
	if err != nil {
		return err
	}
	if !staged {
		_, err = fmt.Fprintln(fOut, "Nothing staged")
		return err
	}

	_, err = fmt.Fprintf(fOut, "Staged asset: %s\n", draft.AssetCid)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "  * Mimetype: %s\n    Licence: %s\n    Pending action: %s\n",
		draft.Tree.Mimetype, draft.Tree.Licence.DisplayName(), draft.Commit.Action)
	if err != nil {
		return err
	}
	if draft.Tree.Abstract != "" {
		_, err = fmt.Fprintf(fOut, "    Abstract: %s\n", draft.Tree.Abstract)
	}
	return err
}
