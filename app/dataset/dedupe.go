package dataset

// Dedupe removes rows sharing the same non-empty value in the identifier
// column, keeping the first occurrence in row order. Because historical rows
// are concatenated before freshly fetched ones, a re-fetch of an already
// stored record is dropped in favor of the stored version.
//
// When the identifier column is absent the dataset is returned unchanged and
// applied is false, so schema drift degrades deduplication instead of
// failing the run.
func (d *Dataset) Dedupe(idColumn string) (removed int, applied bool) {
	if !d.HasColumn(idColumn) {
		return 0, false
	}

	seen := make(map[string]struct{}, len(d.rows))
	kept := make([]Record, 0, len(d.rows))
	for _, r := range d.rows {
		id := r[idColumn]
		if id == "" {
			// Rows without an identifier cannot be matched across runs.
			kept = append(kept, r)
			continue
		}
		if _, dup := seen[id]; dup {
			removed++
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, r)
	}
	d.rows = kept

	return removed, true
}
