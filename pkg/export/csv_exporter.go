package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Sheet is an ordered tabular view of a gradebook: one column per header,
// rows already laid out in column order.
type Sheet struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// CSV renders the sheet as CSV bytes. The title is not emitted; CSV
// consumers want a clean header row.
func CSV(sheet Sheet) ([]byte, error) {
	if len(sheet.Columns) == 0 {
		return nil, fmt.Errorf("sheet has no columns")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheet.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(sheet.Columns))
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
