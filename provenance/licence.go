package provenance

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// Licence is a tagged choice: exactly one of Preset or Custom is set. A
// preset names an entry in the built-in table; a custom licence carries its
// body inline.
type Licence struct {
	Preset string       `json:"preset,omitempty"`
	Custom *LicenceBody `json:"custom,omitempty"`
}

// LicenceBody is the inline form of a licence.
type LicenceBody struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	URL      string `json:"url,omitempty"`
}

// PresetLicence names a built-in licence.
func PresetLicence(name string) Licence {
	return Licence{Preset: name}
}

// CustomLicence wraps an inline licence body.
func CustomLicence(body LicenceBody) Licence {
	return Licence{Custom: &body}
}

// DisplayName is the short human-readable licence name.
func (l Licence) DisplayName() string {
	if l.Custom != nil {
		return l.Custom.Name
	}
	if l.Preset != "" {
		return l.Preset
	}
	return "Not specified"
}

// presetEntry is one row of the built-in licence table.
type presetEntry struct {
	FullName string
	URL      string
	Document string
	Order    int
}

// The presets a configuration can name. Resolution happens on every add, so
// a workspace that switches presets drifts new versions to the new licence
// without rewriting history.
var licencePresets = map[string]presetEntry{
	"Not specified": {
		FullName: "No licence specified",
		Order:    100,
	},
	"CC0-1.0": {
		FullName: "Creative Commons Zero v1.0 Universal",
		URL:      "https://creativecommons.org/publicdomain/zero/1.0/",
		Document: "The person who associated a work with this deed has dedicated the work to the public domain.",
		Order:    10,
	},
	"CC-BY-4.0": {
		FullName: "Creative Commons Attribution 4.0 International",
		URL:      "https://creativecommons.org/licenses/by/4.0/",
		Document: "You are free to share and adapt the material for any purpose, provided attribution is given.",
		Order:    20,
	},
	"CC-BY-SA-4.0": {
		FullName: "Creative Commons Attribution Share Alike 4.0 International",
		URL:      "https://creativecommons.org/licenses/by-sa/4.0/",
		Document: "You are free to share and adapt the material, provided attribution is given and derivatives carry the same licence.",
		Order:    30,
	},
}

// LicencePreset describes one built-in licence for display purposes.
type LicencePreset struct {
	ID       string
	FullName string
	URL      string
	Sha256   string
	Order    int
}

// LicencePresets returns the built-in licence table, for `licence list`.
func LicencePresets() []LicencePreset {
	out := make([]LicencePreset, 0, len(licencePresets))
	for id, e := range licencePresets {
		sum := sha256.Sum256([]byte(e.Document))
		out = append(out, LicencePreset{
			ID:       id,
			FullName: e.FullName,
			URL:      e.URL,
			Sha256:   hex.EncodeToString(sum[:]),
			Order:    e.Order,
		})
	}
	return out
}

// ResolveLicence expands the configured licence choice into the full inline
// structure recorded in an AssetTree. Preset names are substituted with the
// complete preset body; a custom licence passes through verbatim.
func ResolveLicence(cfg Licence) (Licence, error) {
	if cfg.Custom != nil {
		return Licence{Custom: cfg.Custom}, nil
	}
	name := cfg.Preset
	if name == "" {
		name = "Not specified"
	}
	e, ok := licencePresets[name]
	if !ok {
		return Licence{}, errors.Errorf("unknown licence preset '%s'", name)
	}
	return Licence{Custom: &LicenceBody{
		Name:     name,
		Document: e.Document,
		URL:      e.URL,
	}}, nil
}
