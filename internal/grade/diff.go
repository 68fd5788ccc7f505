package grade

// Diff returns the records in `new` whose ID does not appear in `old`, in the
// order they appear in `new`. Fields other than ID are not compared.
func Diff(old, new []Record) []Record {
	oldIds := make(map[string]struct{}, len(old))
	for _, r := range old {
		oldIds[r.ID] = struct{}{}
	}

	out := []Record{}
	for _, r := range new {
		if _, seen := oldIds[r.ID]; seen {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Names returns the course name of every record.
func Names(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}
