// Package repo provides sample store access for report runs
package repo

import (
	"fmt"
	"regexp"

	"usagereport/internal/services/report/domain"
)

// DefaultTable is the sample table written by the monitor
const DefaultTable = "summary_data"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidTable reports whether name is safe to interpolate as a table name
func ValidTable(name string) bool { return identRe.MatchString(name) }

func mustTable(name string) string {
	if name == "" {
		return DefaultTable
	}
	if !ValidTable(name) {
		panic(fmt.Sprintf("report repo: invalid table name %q", name))
	}
	return name
}

func checkColumn(col domain.Column) error {
	if !col.Valid() {
		return fmt.Errorf("report repo: unknown column %q", col)
	}
	return nil
}
