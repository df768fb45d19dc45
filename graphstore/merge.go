package graphstore

// MergeParallelEdges collapses parallel edges sharing the same ordered
// (source, target) pair down to the first-inserted edge of each group.
// Non-empty labels of removed edges are concatenated onto the survivor's
// label with labelSep. Returns the number of edges removed. Running it a
// second time removes nothing.
func (d *Document) MergeParallelEdges(labelSep string) int {
	survivor := make(map[[2]string]string)
	var doomed []string

	for _, eid := range d.Store.Edges() {
		from, to, err := d.Store.Endpoints(eid)
		if err != nil {
			continue
		}
		pair := [2]string{from, to}
		keep, ok := survivor[pair]
		if !ok {
			survivor[pair] = eid
			continue
		}
		if label := d.EdgeLabels[eid]; label != "" {
			if d.EdgeLabels[keep] != "" {
				d.EdgeLabels[keep] += labelSep + label
			} else {
				d.EdgeLabels[keep] = label
			}
		}
		doomed = append(doomed, eid)
	}

	for _, eid := range doomed {
		// Endpoint lookups above guarantee these edges exist.
		_ = d.RemoveEdge(eid)
	}
	return len(doomed)
}
