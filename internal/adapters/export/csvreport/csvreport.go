// Package csvreport writes report entries as a csv table
package csvreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"usagereport/internal/core/report"
)

// Write renders entries in their given order under the header for maxBucket buckets
func Write(w io.Writer, entries []report.Entry, maxBucket int, opt report.RowOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.Header(maxBucket)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(report.Row(e, opt)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the csv to path, replacing any existing file
func WriteFile(path string, entries []report.Entry, maxBucket int, opt report.RowOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := Write(f, entries, maxBucket, opt); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
