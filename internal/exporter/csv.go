package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteOptions is one CSV table: a header row and its records
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// Encode writes options as CSV to out. Options with no headers and no
// records produce no output.
func Encode(out io.Writer, options WriteOptions) error {
	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
