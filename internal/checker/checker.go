// Package checker runs a single check: fetch the grade list, diff it against
// the saved snapshot, replace the snapshot and notify about new grades.
package checker

import (
	"context"
	"errors"
	"fmt"

	"gradecheck/internal/components/assert"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"
	"gradecheck/internal/snapshot"
)

const (
	report_checker_run     = "checker.run"
	report_checker_history = "checker.history"
	report_checker_new     = "checker.new"
)

// Fetcher returns the current grade list, logging in first if needed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]grade.Record, error)
}

type Notifier interface {
	Notify(ctx context.Context, records []grade.Record) error
}

// History records every run, it is optional.
type History interface {
	RecordRun(ctx context.Context, firstRun bool, fetched int, records []grade.Record) error
}

type Options struct {
	SnapshotPath string
	Fetcher      Fetcher
	Notifier     Notifier
	// History can be nil.
	History History
}

type Checker struct {
	snapshotPath string
	fetcher      Fetcher
	notifier     Notifier
	history      History
	tel          telemetry.API
}

func NewChecker(opts Options, tel telemetry.API) Checker {
	assert.NotEmptyStr(opts.SnapshotPath)
	assert.NotNil(opts.Fetcher)
	assert.NotNil(opts.Notifier)
	assert.NotNil(tel)

	return Checker{
		snapshotPath: opts.SnapshotPath,
		fetcher:      opts.Fetcher,
		notifier:     opts.Notifier,
		history:      opts.History,
		tel:          telemetry.NewScopedAPI("checker", tel),
	}
}

type Result struct {
	// FirstRun is true when there was no snapshot to diff against.
	FirstRun bool
	Fetched  int
	New      []grade.Record
}

// Run performs one check. A failed fetch leaves the snapshot untouched, once
// the fetch succeeded the snapshot is always replaced with the fetched list.
func (c Checker) Run(ctx context.Context) (Result, error) {
	old, err := snapshot.Load(c.snapshotPath)
	firstRun := errors.Is(err, snapshot.ErrNotFound)
	if err != nil && !firstRun {
		c.tel.ReportBroken(report_checker_run, err)
		return Result{}, err
	}

	fetched, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	diffs := fetched
	if !firstRun {
		diffs = grade.Diff(old, fetched)
	}
	c.tel.ReportDebug("diffed grades", len(old), len(fetched), len(diffs), telemetry.KV{Key: "first_run", Value: firstRun})

	err = snapshot.Save(c.snapshotPath, fetched)
	if err != nil {
		c.tel.ReportBroken(report_checker_run, err)
		return Result{}, err
	}

	if c.history != nil {
		err = c.history.RecordRun(ctx, firstRun, len(fetched), diffs)
		if err != nil {
			c.tel.ReportWarning(report_checker_history, fmt.Errorf("record run: %w", err))
		}
	}

	c.tel.ReportCount(report_checker_new, int64(len(diffs)))

	result := Result{
		FirstRun: firstRun,
		Fetched:  len(fetched),
		New:      diffs,
	}

	err = c.notifier.Notify(ctx, diffs)
	if err != nil {
		return result, err
	}
	return result, nil
}
