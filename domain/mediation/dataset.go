package mediation

import (
	"fmt"
	"math"
	"sort"

	"gomediate/domain/core"
)

// Dataset is an immutable column store of numeric observations.
// Column slices handed out by Column are shared and must not be modified.
type Dataset struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// NewDataset copies the columns into a new dataset. All columns must have
// the same, non-zero length and contain finite values.
func NewDataset(columns map[string][]float64) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", core.ErrInsufficientData)
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := len(columns[names[0]])
	if rows == 0 {
		return nil, fmt.Errorf("%w: column %q is empty", core.ErrInsufficientData, names[0])
	}

	copied := make(map[string][]float64, len(columns))
	for _, name := range names {
		col := columns[name]
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", core.ErrInsufficientData, name, len(col), rows)
		}
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: column %q row %d is not a finite number", core.ErrInsufficientData, name, i)
			}
		}
		copied[name] = append([]float64(nil), col...)
	}

	return &Dataset{names: names, columns: copied, rows: rows}, nil
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return d.rows
}

// Names returns the sorted column names
func (d *Dataset) Names() []string {
	return append([]string(nil), d.names...)
}

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Column returns the named column
func (d *Dataset) Column(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// Require checks that every name is a column
func (d *Dataset) Require(names ...string) error {
	for _, name := range names {
		if !d.Has(name) {
			return core.NewExtractionError(name, "dataset")
		}
	}
	return nil
}

// Resample builds a new dataset whose row i is row indices[i] of d.
// Indices may repeat (sampling with replacement).
func (d *Dataset) Resample(indices []int) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty resample", core.ErrInsufficientData)
	}
	columns := make(map[string][]float64, len(d.columns))
	for _, name := range d.names {
		src := d.columns[name]
		dst := make([]float64, len(indices))
		for i, idx := range indices {
			if idx < 0 || idx >= d.rows {
				return nil, fmt.Errorf("resample index %d out of range [0,%d)", idx, d.rows)
			}
			dst[i] = src[idx]
		}
		columns[name] = dst
	}
	return &Dataset{names: d.names, columns: columns, rows: len(indices)}, nil
}
