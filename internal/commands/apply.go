package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"projectzipper/internal/fsops"
	"projectzipper/internal/log"
)

func ApplyCommand() *cli.Command {
	return &cli.Command{
		Name:   "apply",
		Usage:  "create the diagram's directories and files on disk",
		Action: runApply,
		Flags: append(parserFlags(),
			&cli.StringFlag{
				Name:     "out",
				Usage:    "destination directory",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry",
				Usage: "print what would be done without touching the disk",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite existing files",
			},
			&cli.BoolFlag{
				Name:  "content",
				Usage: "fill files with placeholders instead of leaving them empty",
			},
		),
	}
}

func runApply(ctx context.Context, cmd *cli.Command) error {
	l := log.FromContext(ctx)

	h, _, err := readHierarchy(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := fsops.Apply(h, fsops.Options{
		Dest:    cmd.String("out"),
		DryRun:  cmd.Bool("dry"),
		Force:   cmd.Bool("force"),
		Content: cmd.Bool("content"),
		Logger:  l,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("dry") {
		w := stdout(cmd)
		for _, a := range res.Actions {
			fmt.Fprintf(w, "%-9s %s\n", a.Op, a.Path)
		}
	}
	l.Info("apply finished", "dest", cmd.String("out"), "dirs", res.Dirs, "files", res.Files, "skipped", res.Skipped, "dry_run", cmd.Bool("dry"))
	return nil
}
