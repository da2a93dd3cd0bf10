// Package backup implements the backup command: snapshot the ledger's
// storage file and list available snapshots.
package backup

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/cmd/root"
)

var (
	list  bool
	every time.Duration
)

// Cmd is the backup command
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the ledger storage file",
	Long: `Takes a timestamped full copy of the ledger database into the backup
directory, pruning old snapshots down to the configured retention count.
With --list, shows the available snapshots instead. With --every, keeps
running and snapshots on a timer until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := root.NewBackupManager()

		if list {
			snapshots, err := manager.List()
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Println("No snapshots available.")
				return nil
			}
			for _, s := range snapshots {
				fmt.Printf("%-50s %10d bytes  %s\n", s.Name, s.Size, s.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		}

		path, err := manager.Create()
		if err != nil {
			return err
		}
		fmt.Printf("Created snapshot %s\n", path)

		if every > 0 {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			root.Log.WithField("interval", every).Info("Running scheduled snapshots, Ctrl-C to stop")
			manager.Run(ctx, every)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&list, "list", false, "list available snapshots, newest first")
	Cmd.Flags().DurationVar(&every, "every", 0, "keep running and snapshot at this interval")
}
