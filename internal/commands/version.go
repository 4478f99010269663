package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := stdout(cmd)
			fmt.Fprintf(w, "projectzipper %s\n", Version)
			if Commit != "unknown" {
				fmt.Fprintf(w, "commit: %s\n", Commit)
			}
			if Date != "unknown" {
				fmt.Fprintf(w, "built: %s\n", Date)
			}
			return nil
		},
	}
}
