package main

import (
	"fmt"
	"os"

	"propbooks/cmd/export"
	"propbooks/cmd/ingest"
	"propbooks/cmd/memory"
	"propbooks/cmd/properties"
	"propbooks/cmd/rollup"
	"propbooks/cmd/root"
	"propbooks/cmd/rules"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(rollup.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(memory.Cmd)
	root.Cmd.AddCommand(properties.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
