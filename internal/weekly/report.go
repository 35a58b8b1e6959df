package weekly

import (
	"time"

	"git.home.luguber.info/inful/weeklysync/internal/metrics"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

// Report summarizes a single sync run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	SourceURL  string
	OutputPath string
	Policy     taxonomy.Policy

	Entries int // issue lines extracted
	Years   int // year nodes written
	Months  int // month nodes written
	Links   int // links written

	StageDurations map[StageName]time.Duration
	FailedStage    StageName
	Outcome        metrics.OutcomeLabel
}

func newReport(id string, started time.Time, opts Options) *Report {
	return &Report{
		RunID:          id,
		StartedAt:      started,
		SourceURL:      opts.SourceURL,
		OutputPath:     opts.OutputPath,
		Policy:         opts.Policy,
		StageDurations: make(map[StageName]time.Duration),
	}
}

// Succeeded reports whether every stage completed.
func (r *Report) Succeeded() bool {
	return r != nil && r.Outcome == metrics.OutcomeSuccess
}
