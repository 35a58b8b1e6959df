package weekly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/logfields"
	"git.home.luguber.info/inful/weeklysync/internal/metrics"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

// Fetcher stores the document at url under dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Options are the per-run inputs. Nothing in the pipeline falls back to
// built-in locations; callers pass every path explicitly.
type Options struct {
	SourceURL  string
	CachePath  string
	OutputPath string
	Policy     taxonomy.Policy
}

// Validate checks that every location is set and the policy is known.
func (o Options) Validate() error {
	var missing []string
	if strings.TrimSpace(o.SourceURL) == "" {
		missing = append(missing, "source url")
	}
	if strings.TrimSpace(o.CachePath) == "" {
		missing = append(missing, "cache path")
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		missing = append(missing, "output path")
	}
	if len(missing) > 0 {
		return ferrors.ConfigError("missing sync options: " + strings.Join(missing, ", ")).Build()
	}
	if o.Policy != taxonomy.PolicyReplace && o.Policy != taxonomy.PolicyMerge {
		return ferrors.ConfigError(fmt.Sprintf("unknown output policy %q", o.Policy)).Build()
	}
	return nil
}

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	fetcher  Fetcher
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger for stage progress.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a pipeline around fetcher.
func NewPipeline(fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:  fetcher,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one sync. The returned report is non-nil whenever the options
// were valid, also when a stage failed.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Policy == "" {
		opts.Policy = taxonomy.PolicyReplace
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if p.fetcher == nil {
		return nil, ferrors.InternalError("pipeline has no fetcher").Build()
	}

	started := p.now()
	rs := &runState{
		pipeline: p,
		opts:     opts,
		report:   newReport(p.newID(), started, opts),
	}
	logger := p.logger.With(logfields.RunID(rs.report.RunID))
	logger.Info("Starting weekly sync",
		logfields.URL(opts.SourceURL),
		logfields.Path(opts.OutputPath),
		logfields.Policy(string(opts.Policy)))

	err := p.runStages(ctx, rs, logger, stagesFor(opts.Policy))

	rs.report.Duration = p.now().Sub(started)
	p.recorder.ObserveRunDuration(rs.report.Duration)
	switch {
	case err == nil:
		rs.report.Outcome = metrics.OutcomeSuccess
		p.recorder.SetLastSuccess(p.now())
		logger.Info("Weekly sync completed",
			logfields.Entries(rs.report.Entries),
			logfields.Years(rs.report.Years),
			logfields.Months(rs.report.Months),
			logfields.DurationMS(float64(rs.report.Duration.Microseconds())/1000))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		rs.report.Outcome = metrics.OutcomeCanceled
	default:
		rs.report.Outcome = metrics.OutcomeFailed
	}
	p.recorder.IncRunOutcome(rs.report.Outcome)
	return rs.report, err
}

// runStages executes stages in order, recording timing and stopping on the first error.
func (p *Pipeline) runStages(ctx context.Context, rs *runState, logger *slog.Logger, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			rs.report.FailedStage = st.Name
			p.recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return ferrors.RuntimeError("sync canceled").
				WithCause(err).
				WithContext("stage", string(st.Name)).
				Build()
		}

		t0 := p.now()
		err := st.Fn(ctx, rs)
		dur := p.now().Sub(t0)
		rs.report.StageDurations[st.Name] = dur
		p.recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			rs.report.FailedStage = st.Name
			p.recorder.IncStageResult(string(st.Name), metrics.ResultFailed)
			logger.Debug("Stage failed", logfields.Stage(string(st.Name)), logfields.Error(err))
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
		p.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		logger.Debug("Stage completed",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}
