package table

import "croracle/internal/core"

// Validate checks that t exposes every required column. Order and extra
// columns do not matter. The table is returned unchanged on success.
func Validate(t *core.Table) (*core.Table, error) {
	var missing []string
	for _, name := range core.RequiredColumns {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &core.MissingColumnsError{Missing: missing}
	}
	return t, nil
}
