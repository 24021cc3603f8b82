package detail

// Mapping binds each reconcilable field to the raw column chosen for it. A
// field missing from the map resolved to nothing and is filled with nulls.
type Mapping map[Field]string

// Resolved returns the raw column bound to f.
func (m Mapping) Resolved(f Field) (string, bool) {
	col, ok := m[f]
	return col, ok
}

// Reconcile maps raw inference column names onto the canonical fields. For
// each field the first candidate spelling present in columns wins. The date and
// observed fields are never read from raw columns.
func Reconcile(columns []string) Mapping {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	m := make(Mapping)

	for _, f := range Fields() {
		if col, ok := resolve(f.Candidates(), present); ok {
			m[f] = col
		}
	}

	return m
}

func resolve(candidates []string, present map[string]struct{}) (string, bool) {
	for _, cand := range candidates {
		if _, ok := present[cand]; ok {
			return cand, true
		}
	}

	return "", false
}
