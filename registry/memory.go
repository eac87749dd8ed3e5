package registry

import (
	"context"

	"github.com/ipfs/go-cid"
)

// Memory is an in-process Registry used by the test suites. Sequence numbers
// are global across assets, mimicking block ordering on a shared ledger.
type Memory struct {
	entries map[cid.Cid][]Entry
	nextSeq uint64

	// FailNext makes the next Append return ErrFailure, for tests that
	// need a ledger rejection.
	FailNext bool
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[cid.Cid][]Entry), nextSeq: 1}
}

func (m *Memory) Append(ctx context.Context, assetCid, commitCid cid.Cid) (Receipt, error) {
	if m.FailNext {
		m.FailNext = false
		return Receipt{}, ErrFailure
	}
	seq := m.nextSeq
	m.nextSeq++
	m.entries[assetCid] = append(m.entries[assetCid], Entry{CommitCid: commitCid, Seq: seq})
	return Receipt{TxID: commitCid.String(), Seq: seq}, nil
}

func (m *Memory) Query(ctx context.Context, assetCid cid.Cid) ([]Entry, error) {
	history := m.entries[assetCid]
	out := make([]Entry, len(history))
	copy(out, history)
	return out, nil
}
