package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bandfit/internal/profile"
	"github.com/AnyUserName/bandfit/internal/tui"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in size band presets",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		var rows []tui.SummaryRow
		for _, name := range profile.Names() {
			p := profile.Get(name)
			rows = append(rows, tui.SummaryRow{
				Label: name,
				Value: fmt.Sprintf("%4d-%4d KB  %s", p.MinKB, p.MaxKB, p.Description),
			})
		}
		fmt.Println(tui.RenderSummary("Profiles", rows))
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
