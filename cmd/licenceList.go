package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/provtools/prov/provenance"
)

// Displays the built-in licence presets
var licenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "Displays the built-in licence presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return licenceList()
	},
}

func init() {
	licenceCmd.AddCommand(licenceListCmd)
}

func licenceList() error {
	presets := provenance.LicencePresets()
	sort.Slice(presets, func(i, j int) bool { return presets[i].Order < presets[j].Order })

	_, err := fmt.Fprintf(fOut, "Built-in licence presets:\n\n")
	if err != nil {
		return err
	}
	for _, p := range presets {
		_, err = fmt.Fprintf(fOut, "  * Full name: %s\n    ID: %s\n", p.FullName, p.ID)
		if err != nil {
			return err
		}
		if p.URL != "" {
			_, err = fmt.Fprintf(fOut, "    Source URL: %s\n", p.URL)
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(fOut, "    SHA256: %s\n\n", p.Sha256)
		if err != nil {
			return err
		}
	}
	return nil
}
