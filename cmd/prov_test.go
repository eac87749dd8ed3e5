package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	ipfscid "github.com/ipfs/go-cid"
	chk "gopkg.in/check.v1"

	"github.com/provtools/prov/cas"
	"github.com/provtools/prov/provenance"
	"github.com/provtools/prov/registry"
	"github.com/provtools/prov/signer"
)

type ProvSuite struct {
	buf       bytes.Buffer
	assetFile string
	dir       string
	oldOut    io.Writer

	store *cas.Memory
	reg   *registry.Memory

	// Captured after the first commit, for the verify test
	firstSha, firstSig string
}

const CONFIG = `[user]
name = "Some One"

[committer]
name = "Some One"

[provider]
name = "prov-test"

[licence]
preset = "CC-BY-4.0"

[signing]
keyfile = "%s"

[registry]
url = "http://localhost:5550"
`

var (
	_ = chk.Suite(&ProvSuite{})

	assetContents = []byte("not really a JPEG, but stable test bytes")
)

func Test(t *testing.T) {
	chk.TestingT(t)
}

func (s *ProvSuite) SetUpSuite(c *chk.C) {
	// Create the workspace in a temp directory
	s.dir = c.MkDir()
	cfgFile = filepath.Join(s.dir, "config.toml")

	// Generate a signing key the config file will point at
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalln(err.Error())
	}
	keyPath := filepath.Join(s.dir, "signing.key")
	if err = crypto.SaveECDSA(keyPath, key); err != nil {
		log.Fatalln(err.Error())
	}

	if err = os.WriteFile(cfgFile, []byte(fmt.Sprintf(CONFIG, keyPath)), 0600); err != nil {
		log.Fatalln(err.Error())
	}

	// Add the test asset
	s.assetFile = filepath.Join(s.dir, "bridge.jpg")
	if err = os.WriteFile(s.assetFile, assetContents, 0644); err != nil {
		log.Fatalln(err.Error())
	}

	// Swap the remote backends for in-process ones
	s.store = cas.NewMemory()
	s.reg = registry.NewMemory()
	newContentStore = func(dir string) (cas.Store, error) { return s.store, nil }
	newRegistry = func() (registry.Registry, error) { return s.reg, nil }
}

func (s *ProvSuite) SetUpTest(c *chk.C) {
	// Redirect display output to a temp buffer
	s.oldOut = fOut
	fOut = &s.buf
}

func (s *ProvSuite) TearDownTest(c *chk.C) {
	// Restore the display output redirection
	fOut = s.oldOut

	// Clear the buffered contents
	s.buf.Reset()
}

// loadStagedDraft reads the staging slot directly off disk
func (s *ProvSuite) loadStagedDraft(c *chk.C) (provenance.Draft, bool) {
	staging, err := provenance.NewStagingArea(filepath.Join(s.dir, "staging"))
	c.Assert(err, chk.IsNil)
	d, ok, err := staging.Load()
	c.Assert(err, chk.IsNil)
	return d, ok
}

// Test the "prov add" command on an unregistered asset
func (s *ProvSuite) Test0010_Add(c *chk.C) {
	abstract := "A photograph of a bridge"
	err := add([]string{s.assetFile}, provenance.Updates{Abstract: &abstract}, false)
	c.Assert(err, chk.IsNil)

	// The asset CID must be the content identity of the asset bytes
	wantCid, err := cas.Sum(assetContents)
	c.Assert(err, chk.IsNil)

	d, ok := s.loadStagedDraft(c)
	c.Assert(ok, chk.Equals, true)
	c.Check(d.AssetCid, chk.Equals, wantCid.String())
	c.Check(d.Tree.AssetCid, chk.Equals, wantCid.String())
	c.Check(d.Tree.Abstract, chk.Equals, abstract)
	c.Check(d.Tree.Author, chk.Equals, "Some One")
	c.Check(d.Tree.Licence.DisplayName(), chk.Equals, "CC-BY-4.0")
	c.Check(d.Commit.Action, chk.Equals, provenance.ActionInitialRegistration)

	// The asset bytes landed in the content store
	c.Check(s.store.Has(wantCid), chk.Equals, true)

	// Verify the output given to the user
	c.Check(strings.Contains(s.buf.String(), wantCid.String()), chk.Equals, true)
}

// Test the "prov status" command with a staged draft
func (s *ProvSuite) Test0020_Status(c *chk.C) {
	err := status()
	c.Assert(err, chk.IsNil)
	c.Check(strings.Contains(s.buf.String(), "Staged asset:"), chk.Equals, true)
	c.Check(strings.Contains(s.buf.String(), "A photograph of a bridge"), chk.Equals, true)
}

// A dry run must not anchor anything nor clear the slot
func (s *ProvSuite) Test0030_CommitDryRun(c *chk.C) {
	msg := "should never land"
	err := commit(provenance.CommitOverlay{Message: &msg}, true)
	c.Assert(err, chk.IsNil)
	c.Check(strings.Contains(s.buf.String(), "Dry run"), chk.Equals, true)

	wantCid, err := cas.Sum(assetContents)
	c.Assert(err, chk.IsNil)
	history, err := s.reg.Query(context.Background(), wantCid)
	c.Assert(err, chk.IsNil)
	c.Check(history, chk.HasLen, 0)

	_, ok := s.loadStagedDraft(c)
	c.Check(ok, chk.Equals, true)
}

// Test the "prov commit" command
func (s *ProvSuite) Test0040_Commit(c *chk.C) {
	msg := "The first commit in our test run"
	err := commit(provenance.CommitOverlay{Message: &msg}, false)
	c.Assert(err, chk.IsNil)

	// The registry gained exactly one entry for the asset
	assetCid, err := cas.Sum(assetContents)
	c.Assert(err, chk.IsNil)
	history, err := s.reg.Query(context.Background(), assetCid)
	c.Assert(err, chk.IsNil)
	c.Assert(history, chk.HasLen, 1)

	// Fetch the anchored commit and verify the hash invariant
	comBytes, err := s.store.Get(history[0].CommitCid)
	c.Assert(err, chk.IsNil)
	var com provenance.Commit
	c.Assert(json.Unmarshal(comBytes, &com), chk.IsNil)
	c.Check(com.Abstract, chk.Equals, msg)
	c.Check(com.Author, chk.Equals, "Some One")
	c.Check(com.Provider, chk.Equals, "prov-test")

	treeCid, err := resolveAssetCid(s.assetFile)
	c.Assert(err, chk.IsNil)
	c.Check(treeCid.String(), chk.Equals, assetCid.String())

	storedTree, err := s.store.Get(mustDecodeCid(c, com.AssetTreeCid))
	c.Assert(err, chk.IsNil)
	c.Check(provenance.BytesDigest(storedTree), chk.Equals, com.AssetTreeSha256)

	s.firstSha = com.AssetTreeSha256
	s.firstSig = com.AssetTreeSignature

	// Staging reset: the slot is empty again
	_, ok := s.loadStagedDraft(c)
	c.Check(ok, chk.Equals, false)
}

// A commit with an empty slot must fail with the staging error
func (s *ProvSuite) Test0050_CommitEmptySlot(c *chk.C) {
	err := commit(provenance.CommitOverlay{}, false)
	c.Assert(err, chk.Not(chk.IsNil))
	c.Check(errors.Is(err, provenance.ErrNoStagedAsset), chk.Equals, true)
}

// A second add on the same bytes finds the prior history and carries the
// fields forward
func (s *ProvSuite) Test0060_SecondAdd(c *chk.C) {
	err := add([]string{s.assetFile}, provenance.Updates{}, false)
	c.Assert(err, chk.IsNil)

	d, ok := s.loadStagedDraft(c)
	c.Assert(ok, chk.Equals, true)
	c.Check(d.Tree.Abstract, chk.Equals, "A photograph of a bridge")
}

// Test the "prov log" command across two anchored commits
func (s *ProvSuite) Test0070_Log(c *chk.C) {
	msg := "The second commit in our test run"
	action := provenance.ActionMetadataUpdate
	err := commit(provenance.CommitOverlay{Message: &msg, Action: &action}, false)
	c.Assert(err, chk.IsNil)
	s.buf.Reset()

	logCmdVerify = true
	err = logHistory([]string{s.assetFile})
	logCmdVerify = false
	c.Assert(err, chk.IsNil)

	out := s.buf.String()
	c.Check(strings.Count(out, "  commit "), chk.Equals, 2)
	c.Check(strings.Count(out, "  Signer: "), chk.Equals, 2)
	// Newest first
	first := strings.Index(out, "The second commit in our test run")
	second := strings.Index(out, "The first commit in our test run")
	c.Check(first > -1, chk.Equals, true)
	c.Check(second > first, chk.Equals, true)
}

// Test the "prov verify" command with values from the anchored history
func (s *ProvSuite) Test0080_Verify(c *chk.C) {
	c.Assert(s.firstSha, chk.Not(chk.Equals), "")
	err := verify([]string{s.firstSha, s.firstSig})
	c.Assert(err, chk.IsNil)
	validOutput := s.buf.String()
	c.Check(strings.Contains(validOutput, "Signature valid"), chk.Equals, true)

	// A tampered signature must be rejected, or recover a different signer
	s.buf.Reset()
	tampered := s.firstSig[:len(s.firstSig)-8] + "00000000"
	err = verify([]string{s.firstSha, tampered})
	if err == nil {
		c.Check(s.buf.String(), chk.Not(chk.Equals), validOutput)
	} else {
		c.Check(errors.Is(err, signer.ErrInvalidSignature), chk.Equals, true)
	}
}

// Test the "prov discard" command
func (s *ProvSuite) Test0090_Discard(c *chk.C) {
	// Nothing staged after the last commit
	err := discard()
	c.Assert(err, chk.IsNil)
	c.Check(strings.TrimSpace(s.buf.String()), chk.Equals, "Nothing staged")

	// Stage a draft, then discard it
	s.buf.Reset()
	err = add([]string{s.assetFile}, provenance.Updates{}, false)
	c.Assert(err, chk.IsNil)
	err = discard()
	c.Assert(err, chk.IsNil)
	_, ok := s.loadStagedDraft(c)
	c.Check(ok, chk.Equals, false)
}

// Mock mode produces the placeholder identity and skips the content store
func (s *ProvSuite) Test0100_MockAdd(c *chk.C) {
	mockFile := filepath.Join(s.dir, "mock.bin")
	c.Assert(os.WriteFile(mockFile, []byte("mock asset bytes"), 0644), chk.IsNil)

	err := add([]string{mockFile}, provenance.Updates{}, true)
	c.Assert(err, chk.IsNil)

	d, ok := s.loadStagedDraft(c)
	c.Assert(ok, chk.Equals, true)
	c.Check(d.AssetCid, chk.Equals, provenance.MockAssetCid)

	realCid, err := cas.Sum([]byte("mock asset bytes"))
	c.Assert(err, chk.IsNil)
	c.Check(s.store.Has(realCid), chk.Equals, false)

	c.Assert(discard(), chk.IsNil)
}

// Test the "prov licence list" command
func (s *ProvSuite) Test0110_LicenceList(c *chk.C) {
	err := licenceList()
	c.Assert(err, chk.IsNil)
	c.Check(strings.Contains(s.buf.String(), "CC-BY-4.0"), chk.Equals, true)
	c.Check(strings.Contains(s.buf.String(), "No licence specified"), chk.Equals, true)
}

// Helpers

func mustDecodeCid(c *chk.C, s string) ipfscid.Cid {
	id, err := ipfscid.Decode(s)
	c.Assert(err, chk.IsNil)
	return id
}

// Test the "prov init" command in a fresh directory
func (s *ProvSuite) Test0120_Init(c *chk.C) {
	oldCfg := cfgFile
	defer func() { cfgFile = oldCfg }()

	freshDir := c.MkDir()
	cfgFile = filepath.Join(freshDir, "config.toml")
	err := initWorkspace()
	c.Assert(err, chk.IsNil)

	_, err = os.Stat(cfgFile)
	c.Check(err, chk.IsNil)
	_, err = os.Stat(filepath.Join(freshDir, "signing.key"))
	c.Check(err, chk.IsNil)
	c.Check(strings.Contains(s.buf.String(), "Workspace initialised"), chk.Equals, true)
}
