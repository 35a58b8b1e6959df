package weekly

import (
	"context"

	"git.home.luguber.info/inful/weeklysync/internal/datafile"
	"git.home.luguber.info/inful/weeklysync/internal/issues"
	"git.home.luguber.info/inful/weeklysync/internal/logfields"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StageFetch        StageName = "fetch"
	StageExtract      StageName = "extract"
	StageGroup        StageName = "group"
	StageLoadExisting StageName = "load_existing"
	StageWrite        StageName = "write"
)

// Stage is one step of a run. It reads and updates the shared run state.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// runState carries intermediate results between stages of a single run.
type runState struct {
	pipeline *Pipeline
	opts     Options
	report   *Report

	entries  []issues.Entry
	fresh    taxonomy.Taxonomy
	existing taxonomy.Taxonomy
	final    taxonomy.Taxonomy
}

// stagesFor returns the stage list for a run. load_existing only runs when the
// policy reads the previous data file.
func stagesFor(policy taxonomy.Policy) []StageDef {
	defs := []StageDef{
		{StageFetch, stageFetch},
		{StageExtract, stageExtract},
		{StageGroup, stageGroup},
	}
	if policy.NeedsExisting() {
		defs = append(defs, StageDef{StageLoadExisting, stageLoadExisting})
	}
	return append(defs, StageDef{StageWrite, stageWrite})
}

func stageFetch(ctx context.Context, rs *runState) error {
	return rs.pipeline.fetcher.Fetch(ctx, rs.opts.SourceURL, rs.opts.CachePath)
}

func stageExtract(_ context.Context, rs *runState) error {
	entries, err := issues.ExtractFile(rs.opts.CachePath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		rs.pipeline.logger.Warn("No issue entries found in source document",
			logfields.RunID(rs.report.RunID), logfields.Path(rs.opts.CachePath))
	}
	rs.entries = entries
	rs.report.Entries = len(entries)
	rs.pipeline.recorder.SetEntries(len(entries))
	return nil
}

func stageGroup(_ context.Context, rs *runState) error {
	rs.fresh = taxonomy.FromEntries(rs.entries)
	return nil
}

func stageLoadExisting(_ context.Context, rs *runState) error {
	existing, err := datafile.Load(rs.opts.OutputPath)
	if err != nil {
		return err
	}
	rs.existing = existing
	rs.pipeline.logger.Debug("Loaded existing data file",
		logfields.RunID(rs.report.RunID), logfields.Path(rs.opts.OutputPath), logfields.Years(len(existing)))
	return nil
}

func stageWrite(_ context.Context, rs *runState) error {
	rs.final = rs.opts.Policy.Apply(rs.existing, rs.fresh)
	if err := datafile.Write(rs.opts.OutputPath, rs.final); err != nil {
		return err
	}
	rs.report.Years = len(rs.final)
	rs.report.Months = rs.final.Months()
	rs.report.Links = rs.final.Links()
	rs.pipeline.recorder.SetYears(len(rs.final))
	return nil
}
