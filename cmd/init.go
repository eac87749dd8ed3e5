package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var initCmdForce bool

const configTemplate = `[user]
name = ""

[committer]
name = ""

[provider]
name = ""

[licence]
preset = "Not specified"

[signing]
keyfile = "%s"

[pinning]
url = ""
token = ""

[registry]
url = ""
token = ""
`

// Initialises a new prov workspace
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialises the prov workspace and generates a signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initWorkspace()
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initCmdForce, "force", false,
		"Overwrite an existing config file")
}

func initWorkspace() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	for _, sub := range []string{"", "cache", "staging"} {
		if err = os.MkdirAll(filepath.Join(dir, sub), 0770); err != nil {
			return err
		}
	}

	// Generate a signing key, unless the workspace already has one
	keyPath := filepath.Join(dir, "signing.key")
	if _, err = os.Stat(keyPath); os.IsNotExist(err) {
		key, kerr := crypto.GenerateKey()
		if kerr != nil {
			return kerr
		}
		if kerr = crypto.SaveECDSA(keyPath, key); kerr != nil {
			return kerr
		}
		_, err = fmt.Fprintf(fOut, "Signing key generated: %s\n", keyPath)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(fOut, "  * Signer address: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
		if err != nil {
			return err
		}
	}

	cfgPath := filepath.Join(dir, "config.toml")
	if cfgFile != "" {
		cfgPath = cfgFile
	}
	if _, err = os.Stat(cfgPath); err == nil && !initCmdForce {
		_, err = fmt.Fprintf(fOut, "Workspace already initialised: %s\n", cfgPath)
		return err
	}
	err = os.WriteFile(cfgPath, []byte(fmt.Sprintf(configTemplate, keyPath)), 0600)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(fOut, "Workspace initialised.  Edit %s to set your identity, "+
		"pinning service and registry gateway\n", cfgPath)
	return err
}
