package main

import (
	"fmt"
	"os"

	"fjacquet/ynab-csv/cmd/export"
	"fjacquet/ynab-csv/cmd/parse"
	"fjacquet/ynab-csv/cmd/root"
	"fjacquet/ynab-csv/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
