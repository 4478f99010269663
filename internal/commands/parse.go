package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func ParseCommand() *cli.Command {
	return &cli.Command{
		Name:   "parse",
		Usage:  "print the paths a diagram describes",
		Action: runParse,
		Flags: append(parserFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (table, json)",
				Value:   "table",
			},
		),
	}
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	h, _, err := readHierarchy(ctx, cmd)
	if err != nil {
		return err
	}
	w := stdout(cmd)

	switch cmd.String("output") {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tDEPTH\tPATH")
		for _, e := range h.Entries {
			kind := "file"
			if e.IsDir {
				kind = "dir"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", kind, e.Depth, e.Path)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", cmd.String("output"))
	}
}
