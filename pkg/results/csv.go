package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"function", "class", "spills", "pressure"}

// WriteCSV writes records as CSV with a header row. Rows are flushed
// as they are written so a partial run still leaves usable data, the
// same contract the original collector kept.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
			rec.Func,
			rec.Class,
			strconv.Itoa(rec.Spills),
			strconv.Itoa(rec.Pressure),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", rec.Func, err)
		}
		cw.Flush()
	}
	return cw.Error()
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var recs []Record
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("csv row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		spills, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad spills %q", i+2, row[2])
		}
		pressure, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: bad pressure %q", i+2, row[3])
		}
		recs = append(recs, Record{
			Func:     row[0],
			Class:    row[1],
			Spills:   spills,
			Pressure: pressure,
		})
	}
	return recs, nil
}
