package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ipfs/go-cid"
	rq "github.com/parnurzeal/gorequest"
	"github.com/pkg/errors"
)

// Client talks to a ledger gateway over HTTP. The gateway wraps the actual
// contract call mechanics; this client only ever sees CIDs, sequence numbers
// and transaction handles.
type Client struct {
	url   string
	token string
}

func NewClient(url, token string) *Client {
	return &Client{url: url, token: token}
}

func (c *Client) Append(ctx context.Context, assetCid, commitCid cid.Cid) (Receipt, error) {
	payload := struct {
		AssetCid  string `json:"assetCid"`
		CommitCid string `json:"commitCid"`
	}{assetCid.String(), commitCid.String()}

	resp, body, errs := rq.New().Post(c.url+"/registry/append").
		Set("Authorization", "Bearer "+c.token).
		Send(payload).
		End()
	if errs != nil {
		return Receipt{}, errors.Wrap(ErrFailure, joinErrs(errs))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Receipt{}, errors.Wrapf(ErrFailure, "ledger gateway returned HTTP status %d - '%v'",
			resp.StatusCode, resp.Status)
	}

	var reply struct {
		TxID string `json:"txId"`
		Seq  uint64 `json:"seq"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return Receipt{}, errors.Wrap(ErrFailure, err.Error())
	}
	return Receipt{TxID: reply.TxID, Seq: reply.Seq}, nil
}

func (c *Client) Query(ctx context.Context, assetCid cid.Cid) ([]Entry, error) {
	resp, body, errs := rq.New().Get(fmt.Sprintf("%s/registry/query/%s", c.url, assetCid)).
		Set("Authorization", "Bearer "+c.token).
		End()
	if errs != nil {
		return nil, errors.Wrap(ErrFailure, joinErrs(errs))
	}
	if resp.StatusCode == http.StatusNotFound {
		// Unregistered asset: empty history, not an error
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrFailure, "ledger gateway returned HTTP status %d - '%v'",
			resp.StatusCode, resp.Status)
	}

	var reply struct {
		Entries []struct {
			CommitCid string `json:"commitCid"`
			Seq       uint64 `json:"seq"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, errors.Wrap(ErrFailure, err.Error())
	}

	out := make([]Entry, 0, len(reply.Entries))
	for _, e := range reply.Entries {
		id, err := cid.Decode(e.CommitCid)
		if err != nil {
			return nil, errors.Wrapf(ErrFailure, "ledger gateway returned undecodable commit cid '%s'", e.CommitCid)
		}
		out = append(out, Entry{CommitCid: id, Seq: e.Seq})
	}
	return out, nil
}

func joinErrs(errs []error) string {
	s := ""
	for _, e := range errs {
		if s != "" {
			s += "; "
		}
		s += e.Error()
	}
	return s
}
