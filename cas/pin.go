package cas

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ipfs/go-cid"
	rq "github.com/parnurzeal/gorequest"
	"github.com/pkg/errors"
)

// PinClient talks to a remote pinning service over HTTP. The service stores
// blobs content-addressed and answers by CID, so the client double-checks
// every round trip against a locally derived CID and refuses mismatches.
type PinClient struct {
	url   string
	token string
}

func NewPinClient(url, token string) *PinClient {
	return &PinClient{url: url, token: token}
}

func (p *PinClient) Put(data []byte) (cid.Cid, error) {
	want, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}

	resp, body, errs := rq.New().Post(p.url+"/api/v1/pins").
		Set("Authorization", "Bearer "+p.token).
		Type("text").
		SendString(string(data)).
		End()
	if errs != nil {
		return cid.Undef, errors.Wrap(ErrNetwork, joinErrs(errs))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return cid.Undef, errors.Wrapf(ErrNetwork, "pinning service returned HTTP status %d - '%v'",
			resp.StatusCode, resp.Status)
	}

	var reply struct {
		Cid string `json:"cid"`
	}
	if err = json.Unmarshal([]byte(body), &reply); err != nil {
		return cid.Undef, errors.Wrap(ErrNetwork, err.Error())
	}
	got, err := cid.Decode(reply.Cid)
	if err != nil {
		return cid.Undef, errors.Wrap(ErrInvalidCid, err.Error())
	}
	if !got.Equals(want) {
		return cid.Undef, errors.Wrapf(ErrCidMismatch,
			"pinning service reported %s for content hashing to %s", got, want)
	}
	return want, nil
}

func (p *PinClient) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCid
	}
	resp, body, errs := rq.New().Get(fmt.Sprintf("%s/api/v1/cat/%s", p.url, id)).
		Set("Authorization", "Bearer "+p.token).
		End()
	if errs != nil {
		return nil, errors.Wrap(ErrNetwork, joinErrs(errs))
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrNetwork, "pinning service returned HTTP status %d - '%v'",
			resp.StatusCode, resp.Status)
	}

	b := []byte(body)
	got, err := Sum(b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, ErrCidMismatch
	}
	return b, nil
}

func (p *PinClient) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	resp, _, errs := rq.New().Head(fmt.Sprintf("%s/api/v1/cat/%s", p.url, id)).
		Set("Authorization", "Bearer "+p.token).
		End()
	if errs != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK
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
