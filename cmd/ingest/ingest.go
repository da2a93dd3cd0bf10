// Package ingest implements the ingest command: scan the watch directory
// and process pending statement files.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/cmd/root"
	"github.com/adaves/wealth-tracker/internal/pipeline"
)

var scanOnly bool

// Cmd is the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scan the watch directory and ingest pending statement files",
	Long: `Scans the configured watch directory for statement exports, classifies
each by its column signature, and ingests every classified file: rows are
normalized, the whole batch is validated, committed atomically, and the
source file is moved into the processed sink.`,
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

		pending, err := p.ScanPending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending statement files.")
			return nil
		}

		if scanOnly {
			for _, f := range pending {
				fmt.Printf("%s\t%s\n", f.Filename, f.Account)
			}
			return nil
		}

		var failures int
		for _, f := range pending {
			result, err := p.ProcessFile(f)
			if err != nil {
				root.Log.WithError(err).WithField("file", f.Filename).Error("File not ingested")
				failures++
				continue
			}
			printResult(result)
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d files failed to ingest", failures, len(pending))
		}
		return nil
	},
}

func printResult(result pipeline.Result) {
	fmt.Printf("%s: imported %d transactions into %q\n",
		result.Filename, result.Imported, result.Account)
	for _, rowErr := range result.SkippedRows {
		fmt.Printf("  skipped row %d: %v\n", rowErr.Row, rowErr.Err)
	}
}

func init() {
	Cmd.Flags().BoolVar(&scanOnly, "scan", false, "only list pending files, do not ingest")
}
