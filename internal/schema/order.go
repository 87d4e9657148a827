package schema

// TopologicalOrder returns the tables ordered so that every table appears
// after all tables it references. Among ready tables document order is
// kept, so the result is deterministic for a given document. A dependency
// cycle (self-references included) yields a CycleError listing the tables
// that could not be placed.
func (d *Definition) TopologicalOrder() ([]*Table, error) {
	sorted := make([]*Table, 0, len(d.Tables))
	processed := make(map[string]bool, len(d.Tables))

	for len(sorted) < len(d.Tables) {
		added := false
		for _, t := range d.Tables {
			if processed[t.Name] {
				continue
			}
			ready := true
			for _, dep := range t.Dependencies() {
				if !processed[dep] {
					ready = false
					break
				}
			}
			if ready {
				sorted = append(sorted, t)
				processed[t.Name] = true
				added = true
			}
		}
		if !added {
			var remaining []string
			for _, t := range d.Tables {
				if !processed[t.Name] {
					remaining = append(remaining, t.Name)
				}
			}
			return nil, &CycleError{Tables: remaining}
		}
	}
	return sorted, nil
}
