package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"projectzipper/internal/log"
	"projectzipper/internal/server"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP service",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, overrides PZ_SERVER_LISTEN_ADDR",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "project database directory, overrides PZ_STORAGE_DATA_DIR",
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
		},
		Description: `
Environment variables:
	PZ_SERVER_LISTEN_ADDR        (default: 0.0.0.0:8000)
	PZ_SERVER_AUTH_ENABLED       (default: false)
	PZ_SERVER_AUTH_USER
	PZ_SERVER_AUTH_PASS
	PZ_STORAGE_DATA_DIR          (default: ./projectzipperData)
	PZ_STORAGE_PERSIST           (default: true)
	PZ_STORAGE_CACHE_TTL         (default: 10m)
	PZ_STORAGE_CACHE_MAX_BYTES   (default: 67108864)
	PZ_PARSER_HEURISTIC_FILE
	PZ_PARSER_ASCII              (default: false)
	PZ_PARSER_INFER_PARENTS      (default: false)
	PZ_ARCHIVE_DEFAULT_FORMAT    (default: zip)
	PZ_ARCHIVE_MAX_DIAGRAM_BYTES (default: 1048576)
	PZ_LOG_LEVEL                 (default: info)
`,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.IsSet("listen") {
		cfg.Server.ListenAddr = cmd.String("listen")
	}
	if cmd.IsSet("data-dir") {
		cfg.Storage.DataDir = cmd.String("data-dir")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger := log.NewWithLevel("projectzipper", cfg.LogLevel)

	srv, err := server.New(cfg, logger, Version)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
