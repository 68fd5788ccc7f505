// Package grades queries the graduate system for the logged in student's
// grade list.
package grades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gradecheck/internal/components/assert"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"

	"github.com/go-resty/resty/v2"
)

const (
	report_fetcher_fetch = "fetcher.fetch"
)

const (
	DefaultBaseUrl = "https://yjs1.ustc.edu.cn"

	warmupPath = "/gsapp/sys/wdcjapp/*default/index.do"
	queryPath  = "/gsapp/sys/wdcjapp/modules/wdcj/xscjcx.do"
)

var (
	// ErrUnexpectedShape is returned when the grade query response is not
	// shaped like {"datas": {"xscjcx": {"rows": [...]}}}.
	ErrUnexpectedShape  = errors.New("grades: unexpected response shape")
	ErrUnexpectedStatus = errors.New("grades: unexpected response status")
)

type queryResponse struct {
	Datas *struct {
		Xscjcx *struct {
			Rows []grade.Row `json:"rows"`
		} `json:"xscjcx"`
	} `json:"datas"`
}

type Fetcher struct {
	http    *resty.Client
	baseUrl string
	tel     telemetry.API
}

// NewFetcher creates a Fetcher using `http`, which should already carry an
// authenticated session. An empty `baseUrl` means DefaultBaseUrl.
func NewFetcher(http *resty.Client, baseUrl string, tel telemetry.API) Fetcher {
	assert.NotNil(http)
	assert.NotNil(tel)

	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	return Fetcher{
		http:    http,
		baseUrl: strings.TrimRight(baseUrl, "/"),
		tel:     telemetry.NewScopedAPI("grades", tel),
	}
}

func (f Fetcher) fail(step string, err error) error {
	f.tel.ReportBroken(report_fetcher_fetch, fmt.Errorf("%s: %w", step, err))
	return fmt.Errorf("grades: %s: %w", step, err)
}

// FetchRows returns the raw rows of the grade query, keyed by the remote
// field codes.
func (f Fetcher) FetchRows(ctx context.Context) ([]grade.Row, error) {
	// refreshes the session bound token the query endpoint checks
	res, err := f.http.R().
		SetContext(ctx).
		Get(f.baseUrl + warmupPath)
	if err != nil {
		return nil, f.fail("warmup request", err)
	}
	if res.IsError() {
		return nil, f.fail("warmup request", fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status()))
	}

	res, err = f.http.R().
		SetContext(ctx).
		Post(f.baseUrl + queryPath)
	if err != nil {
		return nil, f.fail("grade query", err)
	}
	if res.IsError() {
		return nil, f.fail("grade query", fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status()))
	}

	var body queryResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, f.fail("decode grade query", fmt.Errorf("%w: %w", ErrUnexpectedShape, err))
	}
	if body.Datas == nil || body.Datas.Xscjcx == nil || body.Datas.Xscjcx.Rows == nil {
		return nil, f.fail("decode grade query", ErrUnexpectedShape)
	}

	rows := body.Datas.Xscjcx.Rows
	f.tel.ReportDebug("grade query rows", len(rows))
	return rows, nil
}

// Fetch returns the current grade list.
func (f Fetcher) Fetch(ctx context.Context) ([]grade.Record, error) {
	rows, err := f.FetchRows(ctx)
	if err != nil {
		return nil, err
	}
	records, err := grade.FromRows(rows, grade.RemoteFields())
	if err != nil {
		return nil, f.fail("construct records", fmt.Errorf("%w: %w", ErrUnexpectedShape, err))
	}
	return records, nil
}
