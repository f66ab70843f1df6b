// Package main provides ashsim, an offline battle simulator for balancing
// species and difficulty content.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var contentDir string

var rootCmd = &cobra.Command{
	Use:   "ashsim",
	Short: "Scars of Ash battle simulator",
	Long:  `ashsim runs battles against the game content without a server, printing the battle log.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "content", "content directory holding species, statuses and maps")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(speciesCmd)
}
