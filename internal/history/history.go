// Package history keeps an audit log of every check and the grades it
// reported as new.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gradecheck/internal/components/assert"
	"gradecheck/internal/components/chrono"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"
	"gradecheck/internal/history/db"
	"gradecheck/pkg/sqliteutil"
)

const (
	report_db_query = "db.query"
)

// Config selects where history is kept. A local sqlite file is used when
// only `file` is set, a remote libsql database when `url` is set.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url == "" {
		if c.File == "" {
			return nil, fmt.Errorf("history: a file or url was not specified")
		}
		return sqliteutil.OpenDB(c.File)
	}

	link := c.Url
	if c.AuthToken != "" {
		values := url.Values{}
		values.Add("authToken", c.AuthToken)
		sep := "?"
		if strings.Contains(link, "?") {
			sep = "&"
		}
		link += sep + values.Encode()
	}
	return sql.Open("libsql", link)
}

// Run is a single recorded check.
type Run struct {
	ID        int64
	StartedAt time.Time
	FirstRun  bool
	Fetched   int
	New       []grade.Record
}

type Store struct {
	db     *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
	time   chrono.TimeAPI
	tel    telemetry.API
}

// Open opens the database described by `config` and makes sure the schema
// exists.
func Open(ctx context.Context, config Config, time chrono.TimeAPI, tel telemetry.API) (Store, error) {
	database, err := config.OpenDB()
	if err != nil {
		return Store{}, err
	}
	store, err := NewStore(ctx, database, time, tel)
	if err != nil {
		database.Close()
		return Store{}, err
	}
	return store, nil
}

func NewStore(ctx context.Context, database *sql.DB, time chrono.TimeAPI, tel telemetry.API) (Store, error) {
	assert.NotNil(database)
	assert.NotNil(time)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("history", tel)

	_, err := database.ExecContext(ctx, db.Schema)
	if err != nil {
		tel.ReportBroken(report_db_query, fmt.Errorf("create schema: %w", err))
		return Store{}, err
	}

	return Store{
		db:     database,
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
		time:   time,
		tel:    tel,
	}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a check that fetched `fetched` records of which
// `records` were new.
func (s Store) RecordRun(ctx context.Context, firstRun bool, fetched int, records []grade.Record) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	param := db.CreateRunParams{
		StartedAt: s.time.Now().Unix(),
		FirstRun:  firstRun,
		Fetched:   int64(fetched),
	}
	runId, err := tx.CreateRun(ctx, param)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateRun", param)
		return err
	}

	for i, r := range records {
		row := db.NewGrade{
			RunID:       runId,
			Position:    int64(i),
			ClassID:     r.ID,
			Name:        r.Name,
			TeacherName: r.TeacherName,
			MarkSystem:  r.MarkSystem,
			Credit:      r.Credit,
			Score:       r.Score,
			Passed:      r.Passed,
			UploadTime:  r.UploadTime,
		}
		err = tx.CreateNewGrade(ctx, row)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreateNewGrade", runId, r.ID)
			return err
		}
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return err
	}
	s.tel.ReportDebug("recorded run", runId, len(records))
	return nil
}

// Runs returns the `limit` most recent runs, newest first.
func (s Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	dbRuns, err := s.qry.GetRuns(ctx, int64(limit))
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRuns", limit)
		return nil, err
	}

	runs := make([]Run, len(dbRuns))
	for i, r := range dbRuns {
		dbGrades, err := s.qry.GetRunGrades(ctx, r.ID)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "GetRunGrades", r.ID)
			return nil, err
		}

		records := make([]grade.Record, len(dbGrades))
		for j, g := range dbGrades {
			records[j] = grade.Record{
				ID:          g.ClassID,
				Name:        g.Name,
				TeacherName: g.TeacherName,
				MarkSystem:  g.MarkSystem,
				Credit:      g.Credit,
				Score:       g.Score,
				Passed:      g.Passed,
				UploadTime:  g.UploadTime,
			}
		}

		runs[i] = Run{
			ID:        r.ID,
			StartedAt: time.Unix(r.StartedAt, 0).In(chrono.Shanghai()),
			FirstRun:  r.FirstRun,
			Fetched:   int(r.Fetched),
			New:       records,
		}
	}
	return runs, nil
}
