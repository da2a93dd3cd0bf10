package main

import (
	"fmt"
	"os"

	backupcmd "github.com/adaves/wealth-tracker/cmd/backup"
	"github.com/adaves/wealth-tracker/cmd/ingest"
	"github.com/adaves/wealth-tracker/cmd/report"
	"github.com/adaves/wealth-tracker/cmd/restore"
	"github.com/adaves/wealth-tracker/cmd/root"
	"github.com/adaves/wealth-tracker/cmd/undo"
)

func init() {
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(undo.Cmd)
	root.Cmd.AddCommand(restore.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(backupcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
