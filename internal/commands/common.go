// Package commands holds the projectzipper subcommands.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"projectzipper/internal/config"
	"projectzipper/internal/parser"
	"projectzipper/pkg/types"
)

// Build information, set by main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// App returns the root command.
func App() *cli.Command {
	return &cli.Command{
		Name:  "projectzipper",
		Usage: "turn tree diagrams into project skeletons",
		Commands: []*cli.Command{
			ServeCommand(),
			ZipCommand(),
			ParseCommand(),
			ApplyCommand(),
			VersionCommand(),
		},
	}
}

func envFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file read before the environment",
		Value: ".env",
	}
}

// parserFlags are shared by every command that reads a diagram.
func parserFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "in",
			Usage: "diagram file, - for stdin",
			Value: "-",
		},
		&cli.BoolFlag{
			Name:  "ascii",
			Usage: "also accept |--, `-- and +-- branches",
		},
		&cli.BoolFlag{
			Name:  "infer-parents",
			Usage: "treat a file followed by a deeper line as a directory",
		},
		&cli.StringFlag{
			Name:  "heuristic",
			Usage: "YAML file with directory tokens and parser switches",
		},
		envFileFlag(),
	}
}

// loadConfig reads the configuration and applies parser flags on top.
func loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx, cmd.String("env-file"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("ascii") {
		cfg.Parser.ASCII = cmd.Bool("ascii")
	}
	if cmd.IsSet("infer-parents") {
		cfg.Parser.InferParents = cmd.Bool("infer-parents")
	}
	if cmd.IsSet("heuristic") {
		cfg.Parser.HeuristicFile = cmd.String("heuristic")
	}
	return cfg, nil
}

// readHierarchy parses the diagram named by --in. Blank input is an error.
func readHierarchy(ctx context.Context, cmd *cli.Command) (types.Hierarchy, *config.Config, error) {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return types.Hierarchy{}, nil, err
	}
	h, err := cfg.Heuristic()
	if err != nil {
		return types.Hierarchy{}, nil, err
	}

	var r io.Reader = cmd.Root().Reader
	if r == nil {
		r = os.Stdin
	}
	if in := cmd.String("in"); in != "" && in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return types.Hierarchy{}, nil, fmt.Errorf("failed to open diagram: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, cfg.Archive.MaxDiagramBytes+1))
	if err != nil {
		return types.Hierarchy{}, nil, fmt.Errorf("failed to read diagram: %w", err)
	}
	if int64(len(data)) > cfg.Archive.MaxDiagramBytes {
		return types.Hierarchy{}, nil, fmt.Errorf("diagram exceeds %d bytes", cfg.Archive.MaxDiagramBytes)
	}
	if parser.IsBlank(string(data)) {
		return types.Hierarchy{}, nil, fmt.Errorf("input tree structure cannot be empty")
	}

	hier, err := parser.ParseReader(bytes.NewReader(data), h)
	if err != nil {
		return types.Hierarchy{}, nil, err
	}
	return hier, cfg, nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
