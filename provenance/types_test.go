package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalIsDeterministic(t *testing.T) {
	tree := AssetTree{
		AssetCid:  "bafyasset",
		Mimetype:  "image/png",
		Birthtime: 1700000000,
		Author:    "alice",
		Licence:   Licence{Custom: &LicenceBody{Name: "CC-BY-4.0"}},
		Abstract:  "a test tree",
	}

	a, err := MarshalCanonical(tree)
	require.NoError(t, err)
	b, err := MarshalCanonical(tree)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// A one-field change must change the digest
	tree.Abstract = "a different abstract"
	c, err := MarshalCanonical(tree)
	require.NoError(t, err)
	assert.NotEqual(t, BytesDigest(a), BytesDigest(c))
}

func TestTreeDigestMatchesBytesDigest(t *testing.T) {
	tree := AssetTree{AssetCid: "bafyasset", Mimetype: "text/plain"}
	data, shaHex, err := TreeDigest(tree)
	require.NoError(t, err)
	assert.Equal(t, shaHex, BytesDigest(data))
	assert.Len(t, shaHex, 64)
}

func TestActionClosedSetWithEscape(t *testing.T) {
	assert.True(t, ActionInitialRegistration.Known())
	assert.True(t, ActionMetadataUpdate.Known())

	// Free text survives but is flagged
	odd := Action("notarized-by-carrier-pigeon")
	assert.False(t, odd.Known())
	assert.Equal(t, "notarized-by-carrier-pigeon (unrecognized)", odd.String())
	assert.Equal(t, "initial-registration", ActionInitialRegistration.String())
}

func TestResolveLicencePreset(t *testing.T) {
	lic, err := ResolveLicence(PresetLicence("CC-BY-4.0"))
	require.NoError(t, err)
	require.NotNil(t, lic.Custom)
	assert.Equal(t, "CC-BY-4.0", lic.Custom.Name)
	assert.NotEmpty(t, lic.Custom.Document)
	assert.NotEmpty(t, lic.Custom.URL)
}

func TestResolveLicenceCustomPassesThrough(t *testing.T) {
	body := LicenceBody{Name: "House Rules", Document: "Ask first."}
	lic, err := ResolveLicence(CustomLicence(body))
	require.NoError(t, err)
	require.NotNil(t, lic.Custom)
	assert.Equal(t, body, *lic.Custom)
}

func TestResolveLicenceDefaultsAndErrors(t *testing.T) {
	// Empty configuration resolves to the "Not specified" preset
	lic, err := ResolveLicence(Licence{})
	require.NoError(t, err)
	assert.Equal(t, "Not specified", lic.DisplayName())

	_, err = ResolveLicence(PresetLicence("NOT-A-LICENCE"))
	assert.Error(t, err)
}

func TestLicencePresetsTable(t *testing.T) {
	presets := LicencePresets()
	require.NotEmpty(t, presets)
	seen := map[string]bool{}
	for _, p := range presets {
		assert.NotEmpty(t, p.FullName)
		assert.Len(t, p.Sha256, 64)
		seen[p.ID] = true
	}
	assert.True(t, seen["Not specified"])
	assert.True(t, seen["CC-BY-4.0"])
}
