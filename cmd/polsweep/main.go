package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "polsweep",
		Short: "polsweep - analysis of media-polarization simulation sweeps",
		Long: `polsweep loads per-trial result files produced by the NetLogo
opinion-dynamics model, aggregates them across repetitions, classifies
each parameter combination as polarizing or nonpolarizing, and
reproduces the study's tables and figures.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for notebook/agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory (holds .polsweep/)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newLoadCmd(),
		newReportCmd(),
		newExportCmd(),
		newPlotCmd(),
		newGraphCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("polsweep version %s\n", version)
			}
		},
	}
}
