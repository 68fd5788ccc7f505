package commands

import (
	"fmt"
	"os"
	"strings"

	"gradecheck/internal/grade"
	"gradecheck/internal/snapshot"
	"gradecheck/pkg/textutil"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const courseSimilarity = 0.85

var showCourse *string

func init() {
	showCourse = showCmd.Flags().String("course", "", "Only show courses with a name similar to this one.")
	rootCmd.AddCommand(showCmd)
}

// matchCourse reports whether the course `name` is what `query` refers to,
// either by containing it or by being spelled closely enough.
func matchCourse(name, query string) bool {
	name = textutil.NormalizeName(name)
	query = textutil.NormalizeName(query)
	if query == "" || strings.Contains(name, query) {
		return true
	}
	return matchr.JaroWinkler(name, query, false) >= courseSimilarity
}

func filterCourses(records []grade.Record, query string) []grade.Record {
	out := []grade.Record{}
	for _, r := range records {
		if matchCourse(r.Name, query) {
			out = append(out, r)
		}
	}
	return out
}

func gradeTable(records []grade.Record) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"课堂号", "课程名", "教师", "分制", "学分", "分数", "是否通过", "分数上传时间"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Name, r.TeacherName, r.MarkSystem, r.Credit, r.Score, r.Passed, r.UploadTime})
	}
	t.SetStyle(table.StyleRounded)
	return t
}

var showCmd = &cobra.Command{
	Use:   "show [--course <name>]",
	Short: "Prints the grades saved by the last check.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(*configPath, flagConfig)
		if err != nil {
			return err
		}

		records, err := snapshot.Load(cfg.Snapshot)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}

		t := gradeTable(filterCourses(records, *showCourse))
		t.SetOutputMirror(os.Stdout)
		t.Render()
		return nil
	},
}
