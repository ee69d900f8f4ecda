package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotframe/pkg/core/variant"
)

// variantRow is the listing form of a catalog entry.
type variantRow struct {
	ID          string   `json:"id"`
	Component   string   `json:"component"`
	Regions     string   `json:"regions"`
	Ratios      []string `json:"ratios,omitempty"`
	Wrap        string   `json:"wrap"`
	Description string   `json:"description"`
}

func variantRows() []variantRow {
	all := variant.All()
	rows := make([]variantRow, len(all))
	for i, v := range all {
		regions := strconv.Itoa(v.RegionCount)
		if v.Dynamic() {
			regions = fmt.Sprintf("1-%d %s", variant.MaxSplitRegions, v.Split)
		}
		var ratios []string
		for _, r := range v.Ratios {
			ratios = append(ratios, r.String())
		}
		rows[i] = variantRow{
			ID:          v.ID,
			Component:   v.ComponentName,
			Regions:     regions,
			Ratios:      ratios,
			Wrap:        v.Wrap.String(),
			Description: v.Description,
		}
	}
	return rows
}

// variantsCommand lists the layout catalog.
func (c *CLI) variantsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "variants",
		Aliases: []string{"ls"},
		Short:   "List the layout variant catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := variantRows()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(StyleDim).
				Headers("VARIANT", "COMPONENT", "REGIONS", "RATIOS", "WRAP").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return StyleTitle.Padding(0, 1)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			for _, r := range rows {
				ratios := strings.Join(r.Ratios, " ")
				if ratios == "" {
					ratios = "authored"
				}
				t.Row(r.ID, r.Component, r.Regions, ratios, r.Wrap)
			}
			fmt.Fprintln(out, t)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}
