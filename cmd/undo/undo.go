// Package undo implements the undo command: remove a file's imported
// transactions from the ledger.
package undo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/cmd/root"
)

var restore bool

// Cmd is the undo command
var Cmd = &cobra.Command{
	Use:   "undo <filename>",
	Short: "Undo a file's import, deleting its transactions from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		l, err := root.OpenLedger()
		if err != nil {
			return err
		}
		defer func() {
			_ = l.Close()
		}()

		found, err := l.UndoFileImport(filename)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("No processed file named %q in the ledger.\n", filename)
			return nil
		}
		fmt.Printf("Removed import of %q and all its transactions.\n", filename)

		if restore {
			p, err := root.NewPipeline(l)
			if err != nil {
				return err
			}
			moved, err := p.Restore(filename)
			if err != nil {
				return err
			}
			if moved {
				fmt.Printf("Restored %q to the watch directory.\n", filename)
			} else {
				fmt.Printf("%q is not in the processed directory; nothing to restore.\n", filename)
			}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&restore, "restore", false, "also move the file back to the watch directory for reprocessing")
}
