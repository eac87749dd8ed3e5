package provenance

// AssetTree is one metadata snapshot of a real-world digital asset. The
// AssetCid field is the asset's permanent identity (the CID of the original
// asset bytes) and never changes across versions; every other field may.
type AssetTree struct {
	AssetCid     string  `json:"assetCid"`
	Mimetype     string  `json:"mimetype"`
	Birthtime    int64   `json:"birthtime"`
	Author       string  `json:"author"`
	Licence      Licence `json:"license"`
	Abstract     string  `json:"abstract"`
	NftRecord    string  `json:"nftRecord,omitempty"`
	IntegrityCid string  `json:"integrityCid,omitempty"`
}

// Commit is the signed envelope that anchors one AssetTree version into
// history. AssetTreeCid changes every version; AssetTreeSha256 is the sha256
// of the canonical serialized tree at signing time, and AssetTreeSignature
// is a recoverable signature over that hash.
type Commit struct {
	AssetTreeCid       string `json:"assetTreeCid"`
	AssetTreeSha256    string `json:"assetTreeSha256"`
	AssetTreeSignature string `json:"assetTreeSignature"`
	Author             string `json:"author"`
	Committer          string `json:"committer"`
	Provider           string `json:"provider"`
	Action             Action `json:"action"`
	ActionResult       string `json:"actionResult,omitempty"`
	Abstract           string `json:"abstract,omitempty"`
	TimestampCreated   int64  `json:"timestampCreated"`
}

// AssetInfo carries the intrinsic byte properties captured at first
// registration. Inspection of the file itself (MIME sniffing, timestamps)
// happens at the CLI edge; the engine only consumes the result.
type AssetInfo struct {
	Mimetype  string
	Birthtime int64
}

// Updates is the sparse field-update set applied by add. Only non-nil
// fields are written onto the base tree; AssetCid, Mimetype and Birthtime
// can never be updated.
type Updates struct {
	Abstract     *string
	NftRecord    *string
	IntegrityCid *string
	Licence      *Licence
}

// Action tags a commit with its provenance event. The known set is closed,
// but unrecognized values survive round trips verbatim so histories written
// by newer tools still display.
type Action string

const (
	ActionInitialRegistration Action = "initial-registration"
	ActionMetadataUpdate      Action = "metadata-update"
	ActionOwnershipTransfer   Action = "ownership-transfer"
	ActionNftMint             Action = "nft-mint"
)

// Known reports whether the action is part of the closed set.
func (a Action) Known() bool {
	switch a {
	case ActionInitialRegistration, ActionMetadataUpdate, ActionOwnershipTransfer, ActionNftMint:
		return true
	}
	return false
}

func (a Action) String() string {
	if a.Known() {
		return string(a)
	}
	return string(a) + " (unrecognized)"
}
