package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stataid/domain/core"
)

// Row maps column names to scalar cells: a number, text, or missing (nil / blank).
type Row map[string]any

// Dataset is an ordered column list plus the rows produced by an import layer.
// Rows are assumed to share the same column-name set; this is not re-validated.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates a dataset with an explicit column order
func New(columns []string, rows []Row) *Dataset {
	return &Dataset{Columns: columns, Rows: rows}
}

// FromRows creates a dataset whose column order is the sorted key set of the first row
func FromRows(rows []Row) *Dataset {
	var columns []string
	if len(rows) > 0 {
		columns = make([]string, 0, len(rows[0]))
		for k := range rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}
	return &Dataset{Columns: columns, Rows: rows}
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// IsEmpty reports whether there is nothing to profile
func (d *Dataset) IsEmpty() bool {
	return d.RowCount() == 0 || d.ColumnCount() == 0
}

// HasColumn reports whether name is one of the dataset's columns
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cell returns the raw value at row i, column col (nil when absent)
func (d *Dataset) Cell(i int, col string) any {
	return d.Rows[i][col]
}

// Subset returns a dataset sharing the column order and holding only the given row indices
func (d *Dataset) Subset(indices []int) *Dataset {
	rows := make([]Row, len(indices))
	for i, idx := range indices {
		rows[i] = d.Rows[idx]
	}
	return &Dataset{Columns: d.Columns, Rows: rows}
}

// Fingerprint hashes the column order and every cell
func (d *Dataset) Fingerprint() core.DatasetFingerprint {
	return core.ComputeDatasetFingerprint(d.Columns, func(i int, col string) any {
		v := d.Rows[i][col]
		if IsMissing(v) {
			return nil
		}
		return v
	}, len(d.Rows))
}

// DuplicateRows counts rows identical (over the ordered columns) to an earlier row
func (d *Dataset) DuplicateRows() int {
	seen := make(map[string]struct{}, len(d.Rows))
	dups := 0
	var key strings.Builder
	for _, row := range d.Rows {
		key.Reset()
		for j, col := range d.Columns {
			if j > 0 {
				key.WriteByte('\x1f')
			}
			if v := row[col]; !IsMissing(v) {
				key.WriteString(Text(v))
			}
		}
		k := key.String()
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// IsMissing reports whether a cell counts as missing: nil or blank text
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	}
	return false
}

// Text renders a non-missing cell as the text used for category counting
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case *string:
		if t == nil {
			return ""
		}
		return strings.TrimSpace(*t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
