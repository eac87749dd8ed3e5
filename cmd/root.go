package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/message"
)

var (
	cfgFile   string
	numFormat *message.Printer

	// Command output goes through fOut so the test suite can capture it
	fOut io.Writer = os.Stdout
)

// ErrConfigMissing means the workspace has never been initialized. It is
// reported before any network access is attempted.
var ErrConfigMissing = errors.New("workspace not initialized - run 'prov init' first")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "prov",
	Short: "Command line provenance tracking for digital assets",
	Long: `prov tracks the provenance of a digital asset over time.

Each version of an asset's metadata is stored content-addressed, sealed in
a signed commit, and anchored to an append-only registry, so the full
history can be reconstructed and verified by anyone holding the asset.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command & sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Add support for pretty printing numbers
	numFormat = message.NewPrinter(message.MatchLanguage("en"))

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.prov/config.toml)")
}

// configDir returns the workspace directory holding the config file, the
// staging slot and the local blob cache.
func configDir() (string, error) {
	if cfgFile != "" {
		return filepath.Dir(cfgFile), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".prov"), nil
}

// loadConfig reads the workspace configuration. It fails with
// ErrConfigMissing when the workspace has never been initialized.
func loadConfig() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}
	if err = viper.ReadInConfig(); err != nil {
		return ErrConfigMissing
	}
	return nil
}
