// Package restore implements the restore command: move a processed file
// back to the watch directory.
package restore

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/cmd/root"
)

// Cmd is the restore command
var Cmd = &cobra.Command{
	Use:   "restore <filename>",
	Short: "Move a processed statement file back to the watch directory",
	Long: `Moves a file out of the processed sink so it can be ingested again.
Undo its import first, or ingestion will duplicate its transactions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := root.OpenLedger()
		if err != nil {
			return err
		}
		defer func() {
			_ = l.Close()
		}()

		p, err := root.NewPipeline(l)
		if err != nil {
			return err
		}

		moved, err := p.Restore(args[0])
		if err != nil {
			return err
		}
		if !moved {
			fmt.Printf("File not found in processed directory: %s\n", args[0])
			return nil
		}
		fmt.Printf("Restored %q to the watch directory.\n", args[0])
		return nil
	},
}
