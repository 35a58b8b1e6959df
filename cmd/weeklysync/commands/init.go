package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/weeklysync/internal/config"
	"git.home.luguber.info/inful/weeklysync/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path, _ := root.ConfigPath()
	slog.Debug("Initializing configuration", logfields.Path(path), slog.Bool("force", i.Force))
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Wrote configuration to %s\n", path)
	return nil
}
