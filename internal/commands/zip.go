package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"projectzipper/internal/archive"
	"projectzipper/internal/log"
)

func ZipCommand() *cli.Command {
	return &cli.Command{
		Name:   "zip",
		Usage:  "build an archive from a diagram",
		Action: runZip,
		Flags: append(parserFlags(),
			&cli.StringFlag{
				Name:  "out",
				Usage: "archive path, defaults to <root>.<format> in the current directory",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "zip or tar.gz, defaults to PZ_ARCHIVE_DEFAULT_FORMAT",
			},
			&cli.BoolFlag{
				Name:  "empty",
				Usage: "write empty files instead of placeholders",
			},
		),
	}
}

func runZip(ctx context.Context, cmd *cli.Command) error {
	l := log.FromContext(ctx)

	h, cfg, err := readHierarchy(ctx, cmd)
	if err != nil {
		return err
	}

	format := cfg.Archive.DefaultFormat
	if cmd.IsSet("format") {
		format = cmd.String("format")
	}
	format, err = archive.ParseFormat(format)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		out = archive.Filename(h.Root, format)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	stats, err := archive.Write(f, h, archive.Options{Format: format, Empty: cmd.Bool("empty")})
	if err != nil {
		f.Close()
		os.Remove(out)
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	l.Info("archive written", "path", out, "root", h.Root, "contents", stats.String())
	return nil
}
