package measurement

// Merge combines measurement lists from multiple source documents (in
// upload order) into one deduplicated list. First-seen insertion order is
// preserved. Duplicates are resolved by exact name match:
//
//   - higher severity rank wins (Concerning > Suboptimal > Optimal);
//   - on equal rank, the record whose value lies farther from the midpoint
//     of its own optimal range wins — the more clinically notable
//     duplicate, not simply the latest one.
//
// Merge is a pure function and never fails; empty input yields an empty
// list.
func Merge(lists [][]Record) []Record {
	merged := make([]Record, 0)
	index := make(map[string]int)

	for _, list := range lists {
		for _, rec := range list {
			i, seen := index[rec.Name]
			if !seen {
				index[rec.Name] = len(merged)
				merged = append(merged, rec)
				continue
			}
			kept := merged[i]
			switch {
			case rec.Status.SeverityRank() > kept.Status.SeverityRank():
				merged[i] = rec
			case rec.Status.SeverityRank() == kept.Status.SeverityRank() &&
				midpointDistance(rec) > midpointDistance(kept):
				merged[i] = rec
			}
		}
	}
	return merged
}
