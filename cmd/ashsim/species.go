package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List the species catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := species.LoadDirectory(filepath.Join(contentDir, "species"))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tHP\tSTAMINA\tROLE")
		for _, sp := range cat.All() {
			role := "wild"
			switch {
			case sp.IsBoss():
				role = "boss"
			case sp.Starter:
				role = "starter"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", sp.ID, sp.Name, sp.Type, sp.MaxHP, sp.MaxStamina, role)
		}
		return w.Flush()
	},
}
