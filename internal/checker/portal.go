package checker

import (
	"context"

	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"
	"gradecheck/internal/scrapers/cas"
	"gradecheck/internal/scrapers/grades"
)

// PortalFetcher logs into the passport and queries the grade list with the
// resulting session. Every call logs in again.
type PortalFetcher struct {
	client   *cas.Client
	baseUrl  string
	username string
	password string
	tel      telemetry.API
}

func NewPortalFetcher(client *cas.Client, baseUrl, username, password string, tel telemetry.API) PortalFetcher {
	return PortalFetcher{
		client:   client,
		baseUrl:  baseUrl,
		username: username,
		password: password,
		tel:      tel,
	}
}

func (f PortalFetcher) Fetch(ctx context.Context) ([]grade.Record, error) {
	err := f.client.Login(ctx, f.username, f.password)
	if err != nil {
		return nil, err
	}
	return grades.NewFetcher(f.client.Http(), f.baseUrl, f.tel).Fetch(ctx)
}
