package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tarn/internal/observ"
)

// setupProfiling inspects the persistent profiling flags and starts the
// selected profilers. It returns a cleanup function that is safe to call
// multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	profile, err := observ.StartProfile(observ.ProfileConfig{
		CPUPath:   cpuProfile,
		MemPath:   memProfile,
		TracePath: tracePath,
	})
	if err != nil {
		return nil, err
	}

	cleanup := func() {
		if stopErr := profile.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "failed to stop profilers: %v\n", stopErr)
		}
	}
	return cleanup, nil
}
