package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/provtools/prov/provenance"
)

var (
	addCmdAbstract, addCmdNftRecord   string
	addCmdIntegrityCid, addCmdLicence string
	addCmdMock                        bool
)

// Stages a new metadata version for an asset
var addCmd = &cobra.Command{
	Use:   "add [asset file]",
	Short: "Stages a new metadata version for an asset",
	Long: `Reconstructs the asset's latest verified metadata (or creates fresh
metadata for a first registration), applies the given field updates, and
stages the result.  Nothing is anchored until 'prov commit'.  Staging a new
asset replaces any previously staged draft.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only the fields given on the command line are treated as updates
		var upd provenance.Updates
		if cmd.Flags().Changed("abstract") {
			upd.Abstract = &addCmdAbstract
		}
		if cmd.Flags().Changed("nft-record") {
			upd.NftRecord = &addCmdNftRecord
		}
		if cmd.Flags().Changed("integrity-cid") {
			upd.IntegrityCid = &addCmdIntegrityCid
		}
		if cmd.Flags().Changed("licence") {
			lic := provenance.PresetLicence(addCmdLicence)
			upd.Licence = &lic
		}
		return add(args, upd, addCmdMock)
	},
}

func init() {
	RootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addCmdAbstract, "abstract", "",
		"Free text description of the asset")
	addCmd.Flags().StringVar(&addCmdNftRecord, "nft-record", "",
		"CID of an external NFT record for the asset")
	addCmd.Flags().StringVar(&addCmdIntegrityCid, "integrity-cid", "",
		"CID of an external integrity record for the asset")
	addCmd.Flags().StringVar(&addCmdLicence, "licence", "",
		"Licence preset for this version, as per 'prov licence list'")
	addCmd.Flags().BoolVar(&addCmdMock, "mock", false,
		"Use a placeholder asset identity and skip the content store")
}

func add(args []string, upd provenance.Updates, mock bool) error {
	// Ensure an asset file was given
	if len(args) == 0 {
		return errors.New("No asset file specified")
	}
	if len(args) > 1 {
		return errors.New("Only one asset can be staged at a time")
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}

	data, info, err := inspectAsset(args[0])
	if err != nil {
		return err
	}

	draft, err := eng.Add(context.Background(), data, info, upd, mock)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(fOut, "Staged '%s'\n", args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "  * Asset CID: %s\n", draft.AssetCid)
	if err != nil {
		return err
	}
	_, err = numFormat.Fprintf(fOut, "    Size: %d bytes\n", len(data))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "    Mimetype: %s\n    Licence: %s\n",
		draft.Tree.Mimetype, draft.Tree.Licence.DisplayName())
	return err
}
