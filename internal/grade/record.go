package grade

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is a single graded class as shown on the grade list.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TeacherName string  `json:"teacher_name"`
	MarkSystem  string  `json:"mark_system"`
	Credit      float64 `json:"credit"`
	Score       float64 `json:"score"`
	Passed      string  `json:"passed"`
	UploadTime  string  `json:"upload_time"`
}

// Row is a record as decoded from JSON, keyed by whatever field names the
// source uses.
type Row = map[string]any

// FieldMapping names the key that holds each Record field in a Row.
type FieldMapping struct {
	ID          string
	Name        string
	TeacherName string
	MarkSystem  string
	Credit      string
	Score       string
	Passed      string
	UploadTime  string
}

// RemoteFields maps the field codes used by the grade query endpoint.
func RemoteFields() FieldMapping {
	return FieldMapping{
		ID:          "KCDM",
		Name:        "KCMC",
		TeacherName: "LRRXM",
		MarkSystem:  "CJFZDM_DISPLAY",
		Credit:      "XF",
		Score:       "DYBFZCJ",
		Passed:      "CJJL_DISPLAY",
		UploadTime:  "CZSJ",
	}
}

// CanonicalFields maps the field names used when a Record is serialized.
func CanonicalFields() FieldMapping {
	return FieldMapping{
		ID:          "id",
		Name:        "name",
		TeacherName: "teacher_name",
		MarkSystem:  "mark_system",
		Credit:      "credit",
		Score:       "score",
		Passed:      "passed",
		UploadTime:  "upload_time",
	}
}

// FromRows constructs a Record from every row using the keys in `m`.
func FromRows(rows []Row, m FieldMapping) ([]Record, error) {
	records := make([]Record, len(rows))
	for i, row := range rows {
		record, err := FromRow(row, m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records[i] = record
	}
	return records, nil
}

func FromRow(row Row, m FieldMapping) (Record, error) {
	var r Record
	var err error

	if r.ID, err = stringField(row, m.ID); err != nil {
		return Record{}, err
	}
	if r.Name, err = stringField(row, m.Name); err != nil {
		return Record{}, err
	}
	if r.TeacherName, err = stringField(row, m.TeacherName); err != nil {
		return Record{}, err
	}
	if r.MarkSystem, err = stringField(row, m.MarkSystem); err != nil {
		return Record{}, err
	}
	if r.Credit, err = numberField(row, m.Credit); err != nil {
		return Record{}, err
	}
	if r.Score, err = numberField(row, m.Score); err != nil {
		return Record{}, err
	}
	if r.Passed, err = stringField(row, m.Passed); err != nil {
		return Record{}, err
	}
	if r.UploadTime, err = stringField(row, m.UploadTime); err != nil {
		return Record{}, err
	}
	return r, nil
}

func lookup(row Row, key string) (any, error) {
	value, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	return value, nil
}

func stringField(row Row, key string) (string, error) {
	value, err := lookup(row, key)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func numberField(row Row, key string) (float64, error) {
	value, err := lookup(row, key)
	if err != nil {
		return 0, err
	}

	var f float64
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, err = v.Float64()
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		f, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
	default:
		return 0, fmt.Errorf("field %q: unexpected type %T", key, value)
	}

	// json cannot encode these, the snapshot would never be written
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("field %q: non-finite value", key)
	}
	return f, nil
}

// formatNumber renders integral values with a trailing `.0` so 3 credits
// reads as `3.0` and 4.5 stays `4.5`.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (r Record) String() string {
	return fmt.Sprintf(`
课堂号: %s
课程名: %s
教师: %s
分制: %s
学分: %s
分数: %s
是否通过: %s
分数上传时间: %s
`,
		r.ID,
		r.Name,
		r.TeacherName,
		r.MarkSystem,
		formatNumber(r.Credit),
		formatNumber(r.Score),
		r.Passed,
		r.UploadTime,
	)
}
