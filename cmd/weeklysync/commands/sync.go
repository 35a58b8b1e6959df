package commands

import (
	"context"
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/weeklysync/internal/config"
	"git.home.luguber.info/inful/weeklysync/internal/fetch"
	"git.home.luguber.info/inful/weeklysync/internal/logfields"
	"git.home.luguber.info/inful/weeklysync/internal/metrics"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
	"git.home.luguber.info/inful/weeklysync/internal/weekly"
)

// SyncCmd implements the 'sync' command, which is also the default.
type SyncCmd struct {
	Merge bool `help:"Keep years from the existing data file that the README no longer lists"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Merge {
		cfg.Output.Policy = taxonomy.PolicyMerge
	}

	logger := cfg.Logging.NewLogger(g.Stderr, root.Verbose)
	slog.SetDefault(logger)

	report, err := RunSync(g.Ctx, cfg, logger)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "已更新 %s\n", report.OutputPath)
	return nil
}

// RunSync performs one pipeline run for cfg. When a metrics textfile is
// configured it is written after the run regardless of the outcome.
func RunSync(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*weekly.Report, error) {
	fetcher := fetch.New(fetch.NewHTTPClient(cfg.HTTP.Timeout),
		fetch.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
		fetch.WithLogger(logger),
	)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	pipeline := weekly.NewPipeline(fetcher,
		weekly.WithRecorder(recorder),
		weekly.WithLogger(logger),
	)
	report, err := pipeline.Run(ctx, cfg.SyncOptions())

	if registry != nil {
		if werr := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); werr != nil {
			logger.Warn("Failed to write metrics textfile",
				logfields.Path(cfg.Metrics.Textfile),
				logfields.Error(werr))
		}
	}
	return report, err
}
