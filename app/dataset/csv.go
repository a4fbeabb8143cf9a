package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the dataset as a flat tabular file: one header row with
// the column names, one row per record.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(d.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(d.columns))
	for _, r := range d.rows {
		for i, c := range d.columns {
			row[i] = r[c]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a flat tabular file into a dataset. Rows that fail to parse
// or whose field count does not match the header are skipped and counted,
// not fatal: a single corrupt row must not discard an entire history file.
func ReadCSV(r io.Reader) (*Dataset, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(), 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	d := New()
	for _, c := range header {
		d.addColumn(c)
	}

	skipped := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(fields) != len(header) {
			skipped++
			continue
		}

		rec := make(Record, len(header))
		for i, c := range header {
			rec[c] = fields[i]
		}
		d.rows = append(d.rows, rec)
	}

	return d, skipped, nil
}
