package cas

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
)

// FileStore keeps blobs on the local filesystem, one file per CID, under a
// single cache directory. It backs the workspace cache that sits in front of
// the remote pinning service.
//
// Writes go through a temp file plus rename so a crash can never leave a
// half-written blob under a valid CID name.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cas: cache directory is required")
	}
	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Put(data []byte) (cid.Cid, error) {
	id, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}

	path := f.pathFor(id)
	if _, err = os.Stat(path); err == nil {
		// Already present. Content addressing makes overwriting pointless.
		return id, nil
	}

	tmp, err := os.CreateTemp(f.dir, "incoming-*")
	if err != nil {
		return cid.Undef, err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return cid.Undef, err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return cid.Undef, err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return cid.Undef, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return cid.Undef, err
	}
	return id, nil
}

func (f *FileStore) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCid
	}
	b, err := os.ReadFile(f.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Guard against on-disk corruption before handing the bytes back
	got, err := Sum(b)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(got.Bytes(), id.Bytes()) {
		return nil, ErrCidMismatch
	}
	return b, nil
}

func (f *FileStore) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(f.pathFor(id))
	return err == nil
}

func (f *FileStore) pathFor(id cid.Cid) string {
	return filepath.Join(f.dir, id.String())
}
