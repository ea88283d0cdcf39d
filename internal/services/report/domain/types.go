// Package domain holds the sample store contract and run types for usage reports
package domain

import (
	"time"

	"usagereport/internal/core/period"
	"usagereport/internal/core/report"
)

// Column names one counter in the sample table
type Column string

// Counter columns of the sample table
const (
	TeacherCount       Column = "teacher_count"
	ActiveTeacherCount Column = "active_teacher_count"
	StudentCount       Column = "student_count"
	ActiveStudentCount Column = "active_student_count"
)

// Columns lists every counter column
var Columns = []Column{TeacherCount, ActiveTeacherCount, StudentCount, ActiveStudentCount}

// Valid reports whether c is a known counter column
// repos interpolate column names, so only valid columns may reach sql
func (c Column) Valid() bool {
	switch c {
	case TeacherCount, ActiveTeacherCount, StudentCount, ActiveStudentCount:
		return true
	}
	return false
}

// ColumnFor maps a category and status onto the column that counts it
func ColumnFor(cat report.Category, st report.Status) Column {
	switch {
	case cat == report.Student && st == report.Active:
		return ActiveStudentCount
	case cat == report.Student:
		return StudentCount
	case st == report.Active:
		return ActiveTeacherCount
	default:
		return TeacherCount
	}
}

// Request parameterises one report run; zero fields take the module defaults
type Request struct {
	Months   int
	Weeks    int
	MaxCount int
	// End is the last instant reported; zero means the newest sample
	End time.Time
}

// Report is the ordered output of one run
type Report struct {
	RunID     string
	Bounds    period.Bounds
	MaxBucket int
	Interval  time.Duration
	Location  *time.Location
	Entries   []report.Entry
}

// Failed counts entries whose histogram is incomplete
func (r Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Result.Complete() {
			n++
		}
	}
	return n
}

// Header returns the row header for this report
func (r Report) Header() []string { return report.Header(r.MaxBucket) }

// Rows renders every entry in order
func (r Report) Rows(scaled bool) [][]string {
	opt := report.RowOptions{Interval: r.Interval, Scaled: scaled, Location: r.Location}
	out := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, report.Row(e, opt))
	}
	return out
}
