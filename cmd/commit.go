package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provtools/prov/provenance"
)

var (
	commitCmdMsg, commitCmdAction string
	commitCmdActionResult         string
	commitCmdDryRun               bool
)

// Anchors the staged metadata version to the registry
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Signs the staged metadata version and anchors it to the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay provenance.CommitOverlay
		if cmd.Flags().Changed("message") {
			overlay.Message = &commitCmdMsg
		}
		if cmd.Flags().Changed("action") {
			action := provenance.Action(commitCmdAction)
			overlay.Action = &action
		}
		if cmd.Flags().Changed("action-result") {
			overlay.ActionResult = &commitCmdActionResult
		}
		return commit(overlay, commitCmdDryRun)
	},
}

func init() {
	RootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitCmdMsg, "message", "m", "",
		"Description / commit message")
	commitCmd.Flags().StringVar(&commitCmdAction, "action", "",
		"Provenance action tag for this commit")
	commitCmd.Flags().StringVar(&commitCmdActionResult, "action-result", "",
		"Outcome of the provenance action")
	commitCmd.Flags().BoolVar(&commitCmdDryRun, "dry-run", false,
		"Display the would-be commit without anchoring anything")
}

func commit(overlay provenance.CommitOverlay, dryRun bool) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	res, err := eng.Commit(context.Background(), overlay, dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		_, err = fmt.Fprintf(fOut, "Dry run - nothing was anchored\n\n")
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(fOut, createCommitText(res.CommitCid, res.Commit))
		return err
	}

	_, err = fmt.Fprintf(fOut, "Commit anchored for asset %s\n", res.AssetCid)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "  * Commit CID: %s\n", res.CommitCid)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "    Ledger sequence: %d\n    Transaction: %s\n",
		res.Receipt.Seq, res.Receipt.TxID)
	if err != nil {
		return err
	}
	if res.Commit.Abstract != "" {
		_, err = fmt.Fprintf(fOut, "    Commit message: %s\n", res.Commit.Abstract)
	}
	return err
}
