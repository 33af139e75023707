package utils

import (
	"encoding/csv"
	"io"
)

// WriteCSV renders rows in the given column order as CSV, header
// first. Missing cells render empty; extra keys in a row are ignored.
// This is the byte-level half of the export contract: services supply
// flat rows and a column list, nothing else.
func WriteCSV(w io.Writer, columns []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
