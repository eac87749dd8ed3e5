package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Recovers the signer address of a commit signature
var verifyCmd = &cobra.Command{
	Use:   "verify [sha256 hash] [signature]",
	Short: "Recovers the signer address of a (hash, signature) pair",
	Long: `Verifies a commit signature found in an asset's history without
reconstructing anything.  Both arguments are hex; a leading 0x is accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return verify(args)
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}

func verify(args []string) error {
	if len(args) != 2 {
		return errors.New("A sha256 hash and a signature are required")
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	addr, err := eng.Verify(strings.TrimPrefix(args[0], "0x"), strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(fOut, "Signature valid\n  * Signer: %s\n", addr.Hex())
	return err
}
