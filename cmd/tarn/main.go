package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tarn/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tarn",
	Short: "Tarn compiler middle tier",
	Long:  `Tarn lowers typed core programs into an erasure-optimized untyped IR`,
}

// main wires the subcommands and persistent flags into the root command
// and executes it. A failed command exits with status code 1.
func main() {
	// Version feeds the automatic --version flag.
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to report (0=default)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this path on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
