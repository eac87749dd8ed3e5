package provenance

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"

	"github.com/provtools/prov/cas"
	"github.com/provtools/prov/registry"
	"github.com/provtools/prov/signer"
)

// MockAssetCid is the placeholder identity used in mock mode. It has the
// same length as a genuine raw sha2-256 CIDv1 string so formatting and
// display code behave as they would with a real asset, but it is not
// decodable and mock drafts can never be anchored.
const MockAssetCid = "mockmockmockmockmockmockmockmockmockmockmockmockmockmockcid"

// Config carries the workspace identity settings the engine stamps onto new
// trees and commit drafts. Licence is the configured choice (preset name or
// inline custom body), resolved on every add.
type Config struct {
	Author    string
	Committer string
	Provider  string
	Licence   Licence
}

// Engine orchestrates the versioning protocol: reconstruction, staging,
// anchoring, inspection and verification. It is single-actor: one workspace,
// one staging slot, operations invoked sequentially.
type Engine struct {
	store   cas.Store
	reg     registry.Registry
	signer  signer.Service
	staging *StagingArea
	cfg     Config

	// Clock supplies commit timestamps. Tests pin it to fixed values.
	Clock func() time.Time
}

func NewEngine(store cas.Store, reg registry.Registry, sig signer.Service, staging *StagingArea, cfg Config) *Engine {
	return &Engine{
		store:   store,
		reg:     reg,
		signer:  sig,
		staging: staging,
		cfg:     cfg,
		Clock:   time.Now,
	}
}

// PullResult is a reconstructed AssetTree ready to receive field updates.
type PullResult struct {
	AssetCid          string
	Tree              AssetTree
	History           []registry.Entry
	FirstRegistration bool
}

// Pull reconstructs the latest verified AssetTree for the given asset bytes.
// For an unregistered asset it builds a fresh tree from the intrinsic byte
// properties plus configured defaults. For a registered one it walks to the
// newest ledger entry, fetches the commit and the tree it anchors, and
// verifies the tree bytes against the commit's recorded hash before handing
// anything back. A hash mismatch is fatal.
//
// In mock mode neither the ContentStore nor the Registry is touched; the
// result is always a fresh tree under the placeholder identity.
func (e *Engine) Pull(ctx context.Context, data []byte, info AssetInfo, mock bool) (PullResult, error) {
	if mock {
		tree, err := e.freshTree(MockAssetCid, info)
		if err != nil {
			return PullResult{}, err
		}
		return PullResult{AssetCid: MockAssetCid, Tree: tree, FirstRegistration: true}, nil
	}

	assetCid, err := e.store.Put(data)
	if err != nil {
		return PullResult{}, err
	}

	entries, err := e.reg.Query(ctx, assetCid)
	if err != nil {
		return PullResult{}, err
	}
	if len(entries) == 0 {
		// First registration
		tree, err := e.freshTree(assetCid.String(), info)
		if err != nil {
			return PullResult{}, err
		}
		return PullResult{AssetCid: assetCid.String(), Tree: tree, FirstRegistration: true}, nil
	}

	// Most recent ledger position wins
	last := entries[len(entries)-1]
	com, err := e.fetchCommit(last.CommitCid)
	if err != nil {
		return PullResult{}, err
	}

	tree, err := e.fetchVerifiedTree(com)
	if err != nil {
		return PullResult{}, err
	}
	if tree.AssetCid != assetCid.String() {
		return PullResult{}, errors.Errorf(
			"registry history for %s anchors a tree claiming asset identity %s", assetCid, tree.AssetCid)
	}
	return PullResult{AssetCid: assetCid.String(), Tree: tree, History: entries}, nil
}

// Add stages a new version: reconstruct the base tree, apply the sparse
// updates, resolve the licence from configuration, build an unsigned commit
// draft and save the whole thing into the staging slot. Whatever draft was
// previously staged is replaced, even for an unrelated asset; the slot
// always tracks the current asset. Use Discard to drop a draft on purpose.
func (e *Engine) Add(ctx context.Context, data []byte, info AssetInfo, upd Updates, mock bool) (Draft, error) {
	pr, err := e.Pull(ctx, data, info, mock)
	if err != nil {
		return Draft{}, err
	}
	tree := pr.Tree

	// The licence follows the active configuration on every add, unless the
	// update set names one explicitly
	licChoice := e.cfg.Licence
	if upd.Licence != nil {
		licChoice = *upd.Licence
	}
	lic, err := ResolveLicence(licChoice)
	if err != nil {
		return Draft{}, err
	}
	tree.Licence = lic

	if upd.Abstract != nil {
		tree.Abstract = *upd.Abstract
	}
	if upd.NftRecord != nil {
		tree.NftRecord = *upd.NftRecord
	}
	if upd.IntegrityCid != nil {
		tree.IntegrityCid = *upd.IntegrityCid
	}

	// Unsigned commit draft; hash, signature and tree CID can only be
	// filled in at commit time, once the staged tree is final
	draft := Draft{
		AssetCid: pr.AssetCid,
		Tree:     tree,
		Commit: Commit{
			Author:    e.cfg.Author,
			Committer: e.cfg.Committer,
			Provider:  e.cfg.Provider,
			Action:    ActionInitialRegistration,
		},
	}
	if err = e.staging.Save(draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// CommitOverlay carries the explicitly supplied commit fields. Nil fields
// keep the draft's provisional values.
type CommitOverlay struct {
	Message      *string
	Action       *Action
	ActionResult *string
}

// CommitResult describes an anchored (or would-be anchored) commit.
type CommitResult struct {
	AssetCid  string
	CommitCid string
	Commit    Commit
	Receipt   registry.Receipt
	DryRun    bool
}

// Commit finalizes the staged draft and anchors it: overlay the supplied
// fields, stamp the timestamp, hash and sign the canonical tree, store tree
// and commit content-addressed, append to the registry and clear the slot.
//
// With dryRun the would-be commit is computed in full (CIDs derived locally)
// but nothing is stored, the registry is never called and the slot is left
// untouched.
func (e *Engine) Commit(ctx context.Context, overlay CommitOverlay, dryRun bool) (CommitResult, error) {
	d, ok, err := e.staging.Load()
	if err != nil {
		return CommitResult{}, err
	}
	if !ok {
		return CommitResult{}, ErrNoStagedAsset
	}

	com := d.Commit
	if overlay.Message != nil {
		com.Abstract = *overlay.Message
	}
	if overlay.Action != nil {
		com.Action = *overlay.Action
	}
	if overlay.ActionResult != nil {
		com.ActionResult = *overlay.ActionResult
	}
	com.TimestampCreated = e.Clock().UTC().Unix()

	treeBytes, shaHex, err := TreeDigest(d.Tree)
	if err != nil {
		return CommitResult{}, err
	}
	digest, err := hex.DecodeString(shaHex)
	if err != nil {
		return CommitResult{}, err
	}
	sig, err := e.signer.Sign(digest)
	if err != nil {
		return CommitResult{}, err
	}
	com.AssetTreeSha256 = shaHex
	com.AssetTreeSignature = hex.EncodeToString(sig)

	if dryRun {
		treeCid, err := cas.Sum(treeBytes)
		if err != nil {
			return CommitResult{}, err
		}
		com.AssetTreeCid = treeCid.String()
		comBytes, err := MarshalCanonical(com)
		if err != nil {
			return CommitResult{}, err
		}
		commitCid, err := cas.Sum(comBytes)
		if err != nil {
			return CommitResult{}, err
		}
		return CommitResult{
			AssetCid:  d.AssetCid,
			CommitCid: commitCid.String(),
			Commit:    com,
			DryRun:    true,
		}, nil
	}

	assetCid, err := cid.Decode(d.AssetCid)
	if err != nil {
		return CommitResult{}, errors.Wrapf(err,
			"staged asset '%s' has no anchorable identity (mock drafts cannot be committed)", d.AssetCid)
	}

	treeCid, err := e.store.Put(treeBytes)
	if err != nil {
		return CommitResult{}, err
	}
	com.AssetTreeCid = treeCid.String()

	comBytes, err := MarshalCanonical(com)
	if err != nil {
		return CommitResult{}, err
	}
	commitCid, err := e.store.Put(comBytes)
	if err != nil {
		return CommitResult{}, err
	}

	receipt, err := e.reg.Append(ctx, assetCid, commitCid)
	if err != nil {
		// The slot stays staged so the caller can retry deliberately
		return CommitResult{}, err
	}

	if err = e.staging.Clear(); err != nil {
		return CommitResult{}, err
	}
	return CommitResult{
		AssetCid:  d.AssetCid,
		CommitCid: commitCid.String(),
		Commit:    com,
		Receipt:   receipt,
	}, nil
}

// LogEntry is one line of an asset's anchored history.
type LogEntry struct {
	CommitCid string
	Seq       uint64
	Commit    Commit
	Signer    string
}

// Log returns the asset's history, newest first. The per-commit fetches are
// independent reads and run concurrently. With verifySigs each commit's
// signature is verified and the recovered signer address filled in; a
// signature that fails to verify aborts the whole operation.
func (e *Engine) Log(ctx context.Context, assetCid cid.Cid, verifySigs bool) ([]LogEntry, error) {
	entries, err := e.reg.Query(ctx, assetCid)
	if err != nil {
		return nil, err
	}

	out := make([]LogEntry, len(entries))
	fetchErrs := make(chan error, len(entries))
	for i, en := range entries {
		go func(i int, en registry.Entry) {
			com, err := e.fetchCommit(en.CommitCid)
			if err != nil {
				fetchErrs <- err
				return
			}
			out[i] = LogEntry{CommitCid: en.CommitCid.String(), Seq: en.Seq, Commit: com}
			fetchErrs <- nil
		}(i, en)
	}
	for range entries {
		if ferr := <-fetchErrs; ferr != nil {
			err = ferr
		}
	}
	if err != nil {
		return nil, err
	}

	if verifySigs {
		for i := range out {
			addr, verr := e.verifyCommit(out[i].Commit)
			if verr != nil {
				return nil, verr
			}
			out[i].Signer = addr.Hex()
		}
	}

	// Ledger order is newest last; display wants newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Verify is the standalone integrity check: recover the signer address of a
// (sha256 digest, signature) pair without reconstructing anything.
func (e *Engine) Verify(shaHex, sigHex string) (common.Address, error) {
	digest, err := hex.DecodeString(shaHex)
	if err != nil {
		return common.Address{}, errors.Wrap(signer.ErrInvalidSignature, "digest is not valid hex")
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return common.Address{}, errors.Wrap(signer.ErrInvalidSignature, "signature is not valid hex")
	}
	return e.signer.Verify(digest, sig)
}

// Status reports the staging slot without changing it.
func (e *Engine) Status() (Draft, bool, error) {
	return e.staging.Load()
}

// Discard drops the staged draft, reporting whether one existed.
func (e *Engine) Discard() (bool, error) {
	_, ok, err := e.staging.Load()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return true, e.staging.Clear()
}

func (e *Engine) freshTree(assetCid string, info AssetInfo) (AssetTree, error) {
	lic, err := ResolveLicence(e.cfg.Licence)
	if err != nil {
		return AssetTree{}, err
	}
	return AssetTree{
		AssetCid:  assetCid,
		Mimetype:  info.Mimetype,
		Birthtime: info.Birthtime,
		Author:    e.cfg.Author,
		Licence:   lic,
		Abstract:  "",
	}, nil
}

func (e *Engine) fetchCommit(commitCid cid.Cid) (Commit, error) {
	b, err := e.store.Get(commitCid)
	if err != nil {
		return Commit{}, errors.Wrapf(err, "fetching commit %s", commitCid)
	}
	var com Commit
	if err = json.Unmarshal(b, &com); err != nil {
		return Commit{}, errors.Wrapf(err, "decoding commit %s", commitCid)
	}
	return com, nil
}

// fetchVerifiedTree fetches the AssetTree a commit anchors and verifies the
// stored bytes against the commit's recorded hash. This guards against store
// corruption and forged pointers; signature verification is a separate,
// explicit operation.
func (e *Engine) fetchVerifiedTree(com Commit) (AssetTree, error) {
	treeCid, err := cid.Decode(com.AssetTreeCid)
	if err != nil {
		return AssetTree{}, errors.Wrapf(err, "commit carries undecodable tree cid '%s'", com.AssetTreeCid)
	}
	b, err := e.store.Get(treeCid)
	if err != nil {
		return AssetTree{}, errors.Wrapf(err, "fetching asset tree %s", treeCid)
	}
	if BytesDigest(b) != com.AssetTreeSha256 {
		return AssetTree{}, errors.Wrapf(ErrHashMismatch,
			"tree %s hashes to %s but its commit recorded %s", treeCid, BytesDigest(b), com.AssetTreeSha256)
	}
	var tree AssetTree
	if err = json.Unmarshal(b, &tree); err != nil {
		return AssetTree{}, errors.Wrapf(err, "decoding asset tree %s", treeCid)
	}
	return tree, nil
}

func (e *Engine) verifyCommit(com Commit) (common.Address, error) {
	digest, err := hex.DecodeString(com.AssetTreeSha256)
	if err != nil {
		return common.Address{}, errors.Wrap(signer.ErrInvalidSignature, "commit hash is not valid hex")
	}
	sig, err := hex.DecodeString(com.AssetTreeSignature)
	if err != nil {
		return common.Address{}, errors.Wrap(signer.ErrInvalidSignature, "commit signature is not valid hex")
	}
	return e.signer.Verify(digest, sig)
}
