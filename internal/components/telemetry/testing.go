package telemetry

import (
	"sync"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

// TestAPI records every report so tests can assert on what a component
// reported.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) push(kind, id string, params []any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, Report{Kind: kind, Id: id, Params: params})
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.push("broken", id, params)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.push("warning", id, params)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.push("debug", msg, params)
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.push("count", id, []any{count})
}

// Reports returns the recorded reports of the given kind ("broken",
// "warning", "debug" or "count").
func (t *TestAPI) Reports(kind string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
