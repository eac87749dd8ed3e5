package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/provtools/prov/cas"
	"github.com/provtools/prov/provenance"
	"github.com/provtools/prov/registry"
	"github.com/provtools/prov/signer"
)

// Backend constructors, replaceable by the test suite
var (
	newContentStore = defaultContentStore
	newRegistry     = defaultRegistry
	newSigner       = defaultSigner
)

// openEngine loads the workspace configuration and wires up the versioning
// engine with its content store, registry client, signer and staging area.
func openEngine() (*provenance.Engine, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	store, err := newContentStore(dir)
	if err != nil {
		return nil, err
	}
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	sig, err := newSigner(dir)
	if err != nil {
		return nil, err
	}
	staging, err := provenance.NewStagingArea(filepath.Join(dir, "staging"))
	if err != nil {
		return nil, err
	}

	cfg := provenance.Config{
		Author:    viper.GetString("user.name"),
		Committer: viper.GetString("committer.name"),
		Provider:  viper.GetString("provider.name"),
		Licence:   configuredLicence(),
	}
	if cfg.Author == "" {
		return nil, errors.New("user.name is not set in the config file")
	}
	if cfg.Committer == "" {
		cfg.Committer = cfg.Author
	}
	return provenance.NewEngine(store, reg, sig, staging, cfg), nil
}

func defaultContentStore(dir string) (cas.Store, error) {
	local, err := cas.NewFileStore(filepath.Join(dir, "cache"))
	if err != nil {
		return nil, err
	}
	pinURL := viper.GetString("pinning.url")
	if pinURL == "" {
		// No pinning service configured: the workspace cache is the store
		return local, nil
	}
	return cas.NewTiered(local, cas.NewPinClient(pinURL, viper.GetString("pinning.token"))), nil
}

func defaultRegistry() (registry.Registry, error) {
	url := viper.GetString("registry.url")
	if url == "" {
		return nil, errors.New("registry.url is not set in the config file")
	}
	return registry.NewClient(url, viper.GetString("registry.token")), nil
}

func defaultSigner(dir string) (signer.Service, error) {
	keyfile := viper.GetString("signing.keyfile")
	if keyfile == "" {
		keyfile = filepath.Join(dir, "signing.key")
	}
	return signer.NewFromKeyfile(keyfile)
}

// configuredLicence maps the config file's licence section onto the tagged
// licence choice the engine resolves on every add.
func configuredLicence() provenance.Licence {
	if viper.IsSet("licence.custom.name") {
		return provenance.CustomLicence(provenance.LicenceBody{
			Name:     viper.GetString("licence.custom.name"),
			Document: viper.GetString("licence.custom.document"),
			URL:      viper.GetString("licence.custom.url"),
		})
	}
	return provenance.PresetLicence(viper.GetString("licence.preset"))
}

// inspectAsset reads the asset file and captures its intrinsic properties:
// the bytes themselves, a sniffed MIME type and the file's birth time.
func inspectAsset(path string) (data []byte, info provenance.AssetInfo, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, provenance.AssetInfo{}, err
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, provenance.AssetInfo{}, err
	}
	if len(data) != int(fi.Size()) {
		return nil, provenance.AssetInfo{}, errors.Errorf(
			"# of bytes read (%d) doesn't match the file size (%d)", len(data), fi.Size())
	}
	return data, provenance.AssetInfo{
		Mimetype:  http.DetectContentType(data),
		Birthtime: fi.ModTime().UTC().Unix(),
	}, nil
}

// createCommitText renders the user visible text for one anchored commit.
func createCommitText(commitCid string, c provenance.Commit) string {
	s := fmt.Sprintf("  commit %s\n", commitCid)
	s += fmt.Sprintf("  Author: %s\n", c.Author)
	if c.Committer != "" && c.Committer != c.Author {
		s += fmt.Sprintf("  Committer: %s\n", c.Committer)
	}
	s += fmt.Sprintf("  Action: %s\n", c.Action)
	if c.ActionResult != "" {
		s += fmt.Sprintf("  Action result: %s\n", c.ActionResult)
	}
	s += fmt.Sprintf("  Date: %v\n", time.Unix(c.TimestampCreated, 0).UTC().Format(time.UnixDate))
	if c.Abstract != "" {
		s += fmt.Sprintf("\n      %s\n", c.Abstract)
	}
	return s
}
