package domain

// RawRow is one dataset row before validation.
// It is the connector's output before normalisation.
type RawRow struct {
	// Row is the 1-based data row number (the header is not counted).
	Row int

	// Fields maps column name to the literal cell text.
	Fields map[string]string
}

// Value returns the cell for the given column and whether the column was present.
func (r RawRow) Value(column string) (string, bool) {
	if r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[column]
	return v, ok
}
