// Package report orders histogram results and renders them as report rows
package report

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"usagereport/internal/core/histogram"
	"usagereport/internal/core/period"
)

// Granularity is the calendar period of a window
type Granularity int

const (
	// Week windows start on Monday
	Week Granularity = iota
	// Month windows start on the first of the month
	Month
)

func (g Granularity) String() string {
	if g == Month {
		return "Month"
	}
	return "Week"
}

// Category is the user population a column counts
type Category int

const (
	// Teacher counts teacher sessions
	Teacher Category = iota
	// Student counts student sessions
	Student
)

func (c Category) String() string {
	if c == Student {
		return "Student"
	}
	return "Teacher"
}

// Status selects all connected users or only active ones
type Status int

const (
	// All counts every connected user
	All Status = iota
	// Active counts users that generated traffic in the sample
	Active
)

func (s Status) String() string {
	if s == Active {
		return "Active"
	}
	return "All"
}

// Categories lists every category in emission order
var Categories = []Category{Teacher, Student}

// Statuses lists every status in emission order
var Statuses = []Status{All, Active}

// Key identifies one histogram in a report; unique per run
type Key struct {
	Granularity Granularity
	Category    Category
	Status      Status
	Window      period.Window
}

// Compare orders keys for output
// months before weeks, students before teachers, active before all, later windows first
func Compare(a, b Key) int {
	if c := cmp.Compare(b.Granularity, a.Granularity); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Category, a.Category); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Status, a.Status); c != 0 {
		return c
	}
	return b.Window.Start().Compare(a.Window.Start())
}

// Entry is one keyed histogram
type Entry struct {
	Key    Key
	Result histogram.Result
}

// Sort orders entries in place by Compare
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int { return Compare(a.Key, b.Key) })
}

// DateLayout renders window starts in rows
const DateLayout = "01/02/06"

// OverflowLabel heads the overflow column
const OverflowLabel = "> Count"

// Header returns the column names for rows with maxBucket buckets
func Header(maxBucket int) []string {
	h := make([]string, 0, maxBucket+8)
	h = append(h, "Period Type", "User", "Status", "Start Time")
	for i := 1; i <= maxBucket; i++ {
		h = append(h, strconv.Itoa(i))
	}
	return append(h, OverflowLabel, "On Hours", "User Hours", "Active Hours")
}

// RowOptions controls how an entry is rendered
type RowOptions struct {
	// Interval is the sampling interval of the store
	Interval time.Duration
	// Scaled projects partial windows onto a full period
	Scaled bool
	// Location formats the start date; nil keeps the window's zone
	Location *time.Location
}

// Row renders an entry; values are hours with two decimals
func Row(e Entry, opt RowOptions) []string {
	start := e.Key.Window.Start()
	if opt.Location != nil {
		start = start.In(opt.Location)
	}
	row := []string{
		e.Key.Granularity.String(),
		e.Key.Category.String(),
		e.Key.Status.String(),
		start.Format(DateLayout),
	}
	for _, v := range e.Metrics(opt).Values() {
		row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
	}
	return row
}

// Metrics converts the entry's raw counts to hours per opt
func (e Entry) Metrics(opt RowOptions) histogram.Metrics {
	scale := 1.0
	if opt.Scaled {
		scale = e.Key.Window.ScalingFactor()
	}
	return e.Result.Metrics(opt.Interval, scale)
}
