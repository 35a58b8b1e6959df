package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/weeklysync/internal/config"
)

// Global carries process-wide collaborators into subcommands.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal bundles the run context and output streams.
func NewGlobal(ctx context.Context, stdout, stderr io.Writer) *Global {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: weeklysync.yaml if present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync SyncCmd `cmd:"" default:"withargs" help:"Fetch the weekly README and rewrite the Hugo data file (default)"`
	Init InitCmd `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ConfigPath returns the file to read and whether it must exist. Only an
// explicit --config makes the file mandatory.
func (c *CLI) ConfigPath() (string, bool) {
	if c.Config == "" {
		return config.DefaultConfigPath, false
	}
	return c.Config, true
}

// LoadConfig reads the configuration selected on the command line.
func (c *CLI) LoadConfig() (*config.Config, error) {
	path, required := c.ConfigPath()
	return config.Load(path, required)
}
