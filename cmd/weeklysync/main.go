package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/weeklysync/cmd/weeklysync/commands"
	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("weeklysync"),
		kong.Description("Sync the ruanyf/weekly issue index into a Hugo data file."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal(ctx, os.Stdout, os.Stderr)
	if err := parser.Run(global, cli); err != nil {
		stop()
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
