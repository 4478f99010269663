package main

import (
	"context"
	"os"

	"projectzipper/internal/commands"
	"projectzipper/internal/log"
)

// Build information (set by linker flags during build)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	commands.Version, commands.Commit, commands.Date = version, commit, date

	cmd := commands.App()

	ctx := log.NewContext(context.Background(), cmd.Name)
	logger := log.FromContext(ctx)

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
