package dataset

import (
	"encoding/json"
	"strconv"
)

// Record is a single row keyed by column name. Values are kept as strings;
// the fetch service returns loosely typed payloads and only the identifier
// columns carry meaning for the engine.
type Record map[string]string

// Dataset is an in-memory tabular collection with a stable column order.
// Columns are the union of every appended record's keys, in first-seen order.
type Dataset struct {
	columns []string
	colSet  map[string]struct{}
	rows    []Record
}

func New() *Dataset {
	return &Dataset{
		colSet: make(map[string]struct{}),
	}
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

func (d *Dataset) Columns() []string {
	return d.columns
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colSet[name]
	return ok
}

func (d *Dataset) Rows() []Record {
	return d.rows
}

func (d *Dataset) addColumn(name string) {
	if _, ok := d.colSet[name]; ok {
		return
	}
	d.colSet[name] = struct{}{}
	d.columns = append(d.columns, name)
}

// Append adds a record, registering any columns not seen before.
func (d *Dataset) Append(r Record) {
	for k := range r {
		d.addColumn(k)
	}
	d.rows = append(d.rows, r)
}

// AppendRaw converts a loosely typed item from the fetch service into a
// record. Nested values are stored as compact JSON.
func (d *Dataset) AppendRaw(item map[string]any) {
	r := make(Record, len(item))
	for k, v := range item {
		r[k] = stringify(v)
	}
	d.Append(r)
}

// Concat appends all rows of other, preserving the receiver's rows first.
func (d *Dataset) Concat(other *Dataset) {
	if other == nil {
		return
	}
	for _, c := range other.columns {
		d.addColumn(c)
	}
	d.rows = append(d.rows, other.rows...)
}

// SetConstant sets the given column to the same value on every row.
func (d *Dataset) SetConstant(name, value string) {
	d.addColumn(name)
	for _, r := range d.rows {
		r[name] = value
	}
}

// IDSet collects the distinct non-empty values of the given column.
func (d *Dataset) IDSet(name string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, r := range d.rows {
		if v := r[name]; v != "" {
			ids[v] = struct{}{}
		}
	}
	return ids
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
