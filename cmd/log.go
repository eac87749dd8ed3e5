package cmd

import (
	"context"
	"fmt"
	"os"

	ipfscid "github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/provtools/prov/cas"
)

var logCmdVerify bool

// Displays the anchored history of an asset
var logCmd = &cobra.Command{
	Use:   "log [asset file or asset CID]",
	Short: "Displays the anchored provenance history of an asset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logHistory(args)
	},
}

func init() {
	RootCmd.AddCommand(logCmd)
	logCmd.Flags().BoolVar(&logCmdVerify, "verify", false,
		"Verify each commit's signature and show the recovered signer address")
}

func logHistory(args []string) error {
	// Ensure an asset was given
	if len(args) == 0 {
		return errors.New("No asset file or asset CID specified")
	}
	if len(args) > 1 {
		return errors.New("Only one asset can be worked with at a time")
	}

	assetCid, err := resolveAssetCid(args[0])
	if err != nil {
		return err
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	entries, err := eng.Log(context.Background(), assetCid, logCmdVerify)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err = fmt.Fprintf(fOut, "No history for asset %s - not yet registered\n", assetCid)
		return err
	}

	_, err = fmt.Fprintf(fOut, "History for asset %s:\n\n", assetCid)
	if err != nil {
		return err
	}
	for _, en := range entries {
		_, err = fmt.Fprint(fOut, createCommitText(en.CommitCid, en.Commit))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(fOut, "  Ledger sequence: %d\n", en.Seq)
		if err != nil {
			return err
		}
		if en.Signer != "" {
			_, err = fmt.Fprintf(fOut, "  Signer: %s\n", en.Signer)
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(fOut)
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveAssetCid accepts either a path to the asset file (identity derived
// locally, no store traffic) or a literal asset CID.
func resolveAssetCid(arg string) (ipfscid.Cid, error) {
	if _, err := os.Stat(arg); err == nil {
		b, rerr := os.ReadFile(arg)
		if rerr != nil {
			return ipfscid.Undef, rerr
		}
		return cas.Sum(b)
	}
	id, err := ipfscid.Decode(arg)
	if err != nil {
		return ipfscid.Undef, errors.Errorf("'%s' is neither an asset file nor a valid asset CID", arg)
	}
	return id, nil
}
