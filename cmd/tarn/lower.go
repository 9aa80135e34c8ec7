package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tarn/internal/driver"
	"tarn/internal/ir"
	"tarn/internal/observ"
	"tarn/internal/project"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <program" + driver.CoreExt + ">",
	Short: "Lower a core snapshot into untyped IR",
	Long:  "Lower reads a typed core snapshot, erases and flattens every definition, and writes the resulting IR snapshot for the backends.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	lowerCmd.Flags().StringP("out", "o", "", "IR snapshot output path (default: input with "+driver.IRExt+")")
	lowerCmd.Flags().Int("jobs", 0, "max parallel lowering workers (0=auto)")
	lowerCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	lowerCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	lowerCmd.Flags().Bool("dump", false, "print the lowered IR to stdout instead of writing a snapshot")
}

func runLower(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dumpIR, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return fmt.Errorf("failed to get dump flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	color.NoColor = !useColor

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Manifest settings fill in whatever the flags leave unset.
	manifest, manifestRoot, manifestFound, err := project.Discover(".")
	if err != nil {
		return err
	}
	if manifestFound {
		if jobs == 0 {
			jobs = manifest.Lower.Jobs
		}
		if maxDiagnostics == 0 {
			maxDiagnostics = manifest.Lower.MaxDiagnostics
		}
		if outPath == "" && manifest.Lower.Out != "" {
			outPath = filepath.Join(manifestRoot, manifest.Lower.Out)
		}
		if manifest.Lower.Timings {
			showTimings = true
		}
	}
	if outPath == "" {
		outPath = defaultOutPath(inputPath)
	}

	timer := observ.NewTimer()

	phase := timer.Begin("load")
	prog, facts, err := driver.LoadCore(inputPath)
	if err != nil {
		return err
	}
	timer.End(phase, filepath.Base(inputPath))

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Timer:          timer,
	}

	var res *driver.Result
	if shouldUseTUI(uiModeValue) && !quiet && !dumpIR && len(prog.Names()) > 0 {
		res, err = runLowerWithUI(cmd.Context(), "tarn lower", prog, facts, opts)
	} else {
		res, err = driver.Lower(cmd.Context(), prog, facts, opts)
	}
	if err != nil {
		return err
	}

	var emitErr error
	if !res.Failed() {
		if dumpIR {
			emitErr = ir.Dump(os.Stdout, res.Program)
		} else {
			phase = timer.Begin("emit")
			emitErr = driver.SaveIR(outPath, res.Program)
			timer.End(phase, filepath.Base(outPath))
		}
	}

	if showTimings {
		driver.AppendTimings(res.Bag, timer, "lower", inputPath)
	}

	if format == "json" {
		if jsonErr := printDiagnosticsJSON(os.Stdout, res.Bag.Items()); jsonErr != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", jsonErr)
		}
	} else {
		printDiagnostics(os.Stdout, res.Bag.Items(), useColor)
		if showTimings && !quiet {
			fmt.Fprint(os.Stdout, timer.Summary())
		}
	}

	if emitErr != nil {
		return fmt.Errorf("failed to write IR snapshot: %w", emitErr)
	}
	if res.Failed() {
		// Diagnostics are already printed; suppress cobra's own reporting.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}

	if !dumpIR && !quiet && format != "json" {
		outputRoot := manifestRoot
		if outputRoot == "" {
			if cwd, cwdErr := os.Getwd(); cwdErr == nil {
				outputRoot = cwd
			}
		}
		_, fprintfErr := fmt.Fprintf(os.Stdout, "lowered %d definitions to %s\n",
			len(res.Program.Names()), formatPathForOutput(outputRoot, outPath))
		if fprintfErr != nil {
			return fprintfErr
		}
	}
	return nil
}

func defaultOutPath(input string) string {
	return strings.TrimSuffix(input, driver.CoreExt) + driver.IRExt
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
