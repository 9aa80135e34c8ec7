package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tarn/internal/core"
	"tarn/internal/driver"
	"tarn/internal/ir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <snapshot>",
	Short: "Pretty-print a core or IR snapshot",
	Long:  "Dump renders a snapshot as stable, diffable text. The snapshot kind is picked by file extension.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	switch filepath.Ext(path) {
	case driver.CoreExt:
		prog, _, err := driver.LoadCore(path)
		if err != nil {
			return err
		}
		return core.Dump(os.Stdout, prog)
	case driver.IRExt:
		prog, err := driver.LoadIR(path)
		if err != nil {
			return err
		}
		return ir.Dump(os.Stdout, prog)
	default:
		return fmt.Errorf("unknown snapshot extension %q (expected %s or %s)",
			filepath.Ext(path), driver.CoreExt, driver.IRExt)
	}
}
