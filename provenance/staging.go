package provenance

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Draft is the staged (AssetTree, Commit draft) pair for one asset. The
// commit draft is unsigned: AssetTreeCid, AssetTreeSha256 and the signature
// are filled in lazily at commit time, once the tree is final.
type Draft struct {
	AssetCid string    `json:"assetCid"`
	Tree     AssetTree `json:"tree"`
	Commit   Commit    `json:"commit"`
}

// StagingArea is the local single-slot workspace. At most one draft exists
// at a time; staging a new asset replaces whatever was there. The slot is
// persisted under a directory so it survives between CLI invocations:
//
//	<dir>/current              the slot pointer (staged asset's CID)
//	<dir>/drafts/<cid>.json    the draft content
//
// Draft content is durably written and synced before the pointer is updated,
// so a crash mid-save leaves either the old slot or no visible change, never
// a pointer to unwritten content.
type StagingArea struct {
	dir string
}

func NewStagingArea(dir string) (*StagingArea, error) {
	if dir == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, "drafts"), 0770); err != nil {
		return nil, err
	}
	return &StagingArea{dir: dir}, nil
}

// Save stages a draft, replacing any existing slot content.
func (s *StagingArea) Save(d Draft) error {
	if d.AssetCid == "" {
		return errors.New("refusing to stage a draft with an empty asset cid")
	}

	j, err := json.MarshalIndent(d, "", " ")
	if err != nil {
		return err
	}

	// Draft content first. The old draft file stays intact until the new
	// bytes are durable, so re-staging the same asset can never leave the
	// pointer referencing truncated content
	if err = writeDurable(s.draftPath(d.AssetCid), j); err != nil {
		return err
	}

	// Only now move the slot pointer, through the same rename so a crash
	// can never leave a partially written pointer
	return writeDurable(s.pointerPath(), []byte(d.AssetCid))
}

// writeDurable replaces path atomically: temp file in the same directory,
// synced, then renamed over the target.
func writeDurable(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".staging-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Load returns the staged draft, or ok=false when the slot is empty.
func (s *StagingArea) Load() (d Draft, ok bool, err error) {
	b, err := os.ReadFile(s.pointerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Draft{}, false, nil
		}
		return Draft{}, false, err
	}
	assetCid := string(b)
	if assetCid == "" {
		return Draft{}, false, nil
	}

	j, err := os.ReadFile(s.draftPath(assetCid))
	if err != nil {
		return Draft{}, false, errors.Wrapf(err, "staging slot points at asset '%s' but its draft is unreadable", assetCid)
	}
	if err = json.Unmarshal(j, &d); err != nil {
		return Draft{}, false, err
	}
	return d, true, nil
}

// Clear empties the slot. Clearing an already-empty slot is fine.
func (s *StagingArea) Clear() error {
	b, err := os.ReadFile(s.pointerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// Pointer first, so a crash between the two removals leaves an empty
	// slot with an orphaned draft file rather than a dangling pointer
	if err = os.Remove(s.pointerPath()); err != nil {
		return err
	}
	if assetCid := string(b); assetCid != "" {
		os.Remove(s.draftPath(assetCid))
	}
	return nil
}

func (s *StagingArea) pointerPath() string {
	return filepath.Join(s.dir, "current")
}

func (s *StagingArea) draftPath(assetCid string) string {
	return filepath.Join(s.dir, "drafts", assetCid+".json")
}
