package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Run struct {
	ID        int64
	StartedAt int64
	FirstRun  bool
	Fetched   int64
}

type NewGrade struct {
	RunID       int64
	Position    int64
	ClassID     string
	Name        string
	TeacherName string
	MarkSystem  string
	Credit      float64
	Score       float64
	Passed      string
	UploadTime  string
}

const createRun = `-- name: CreateRun :one
insert into Run(startedAt, firstRun, fetched)
values (?, ?, ?)
returning id
`

type CreateRunParams struct {
	StartedAt int64
	FirstRun  bool
	Fetched   int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun, arg.StartedAt, arg.FirstRun, arg.Fetched)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createNewGrade = `-- name: CreateNewGrade :exec
insert into NewGrade(
    runId, position, classId, name, teacherName,
    markSystem, credit, score, passed, uploadTime
)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateNewGrade(ctx context.Context, arg NewGrade) error {
	_, err := q.db.ExecContext(
		ctx, createNewGrade,
		arg.RunID,
		arg.Position,
		arg.ClassID,
		arg.Name,
		arg.TeacherName,
		arg.MarkSystem,
		arg.Credit,
		arg.Score,
		arg.Passed,
		arg.UploadTime,
	)
	return err
}

const getRuns = `-- name: GetRuns :many
select id, startedAt, firstRun, fetched from Run
order by startedAt desc, id desc
limit ?
`

func (q *Queries) GetRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, getRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		var i Run
		err := rows.Scan(&i.ID, &i.StartedAt, &i.FirstRun, &i.Fetched)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRunGrades = `-- name: GetRunGrades :many
select
    runId, position, classId, name, teacherName,
    markSystem, credit, score, passed, uploadTime
from NewGrade
where runId = ?
order by position asc
`

func (q *Queries) GetRunGrades(ctx context.Context, runID int64) ([]NewGrade, error) {
	rows, err := q.db.QueryContext(ctx, getRunGrades, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NewGrade
	for rows.Next() {
		var i NewGrade
		err := rows.Scan(
			&i.RunID,
			&i.Position,
			&i.ClassID,
			&i.Name,
			&i.TeacherName,
			&i.MarkSystem,
			&i.Credit,
			&i.Score,
			&i.Passed,
			&i.UploadTime,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
