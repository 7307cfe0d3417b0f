package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/harness"
)

func listCmd() *cli.Command {
	var suites []string
	return &cli.Command{
		Name:  "list",
		Usage: "List registered routines, or the cases a suite expands to",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "suite",
				Usage:       "YAML suite file to expand (repeatable)",
				Destination: &suites,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if len(suites) == 0 {
				for _, name := range harness.Names() {
					d, _ := harness.Lookup(name)
					fmt.Printf("%-22s %s\n", name, strings.Join(d.Model, " "))
				}
				return nil
			}
			for _, path := range suites {
				suite, err := args.LoadSuite(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %s: %v", path, err), 1)
				}
				fmt.Printf("# %s (%d cases)\n", suite.Name, len(suite.Cases))
				for _, a := range suite.Cases {
					fmt.Println(harness.CaseName(a.Function, a))
				}
			}
			return nil
		},
	}
}
