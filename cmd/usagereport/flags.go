package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// endLayout is the -end date format
const endLayout = "2006-01-02"

type cliOptions struct {
	site       string
	months     int
	weeks      int
	maxCount   int
	storageDir string
	end        string
	csvOnly    string
	scaled     bool
	migrate    bool
	version    bool
}

// parseFlags reads the command line; a single positional argument is taken as the site name
func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var o cliOptions
	fs := flag.NewFlagSet("usagereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.site, "site", "", "site name used for the result directory (default from the openvpn client config)")
	fs.IntVar(&o.months, "months", 0, "number of monthly windows (0 means CORE_REPORT_MONTHS, default 60)")
	fs.IntVar(&o.weeks, "weeks", 0, "number of weekly windows (0 means CORE_REPORT_WEEKS with the configured months, else 4 per month)")
	fs.IntVar(&o.maxCount, "maxcount", 0, "highest exact user count bucket (0 means CORE_REPORT_MAX_COUNT, default 20)")
	fs.StringVar(&o.storageDir, "storagedir", "", "directory the result directory is created in (default CORE_EXPORT_STORAGE_DIR)")
	fs.StringVar(&o.end, "end", "", "last day reported, YYYY-MM-DD (default the newest sample)")
	fs.StringVar(&o.csvOnly, "csv-only", "", "write only the csv report to this file")
	fs.BoolVar(&o.scaled, "scaled", false, "project partial windows onto a full period")
	fs.BoolVar(&o.migrate, "migrate", false, "apply the summary_data schema before reporting")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: usagereport [flags] [site name]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch rest := fs.Args(); {
	case len(rest) > 1:
		return o, fmt.Errorf("expected at most one site name, got %q", rest)
	case len(rest) == 1 && o.site != "":
		return o, errors.New("site given both as -site and as an argument")
	case len(rest) == 1:
		o.site = rest[0]
	}
	o.site = strings.TrimSpace(o.site)

	if o.months < 0 {
		return o, errors.New("-months must not be negative")
	}
	if o.weeks < 0 {
		return o, errors.New("-weeks must not be negative")
	}
	if o.maxCount < 0 {
		return o, errors.New("-maxcount must not be negative")
	}
	if o.end != "" {
		if _, err := time.Parse(endLayout, o.end); err != nil {
			return o, fmt.Errorf("-end: %w", err)
		}
	}
	return o, nil
}

// endOf returns the last second of the -end day in loc, zero when unset
func (o cliOptions) endOf(loc *time.Location) time.Time {
	if o.end == "" {
		return time.Time{}
	}
	day, _ := time.ParseInLocation(endLayout, o.end, loc)
	return day.AddDate(0, 0, 1).Add(-time.Second)
}
