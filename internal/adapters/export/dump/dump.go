// Package dump snapshots the sample database with pg_dump
package dump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBin is the dump executable looked up on PATH
const DefaultBin = "pg_dump"

var command = exec.CommandContext

// Dumper runs pg_dump against one database
type Dumper struct {
	Bin string
	URL string
}

// New returns a dumper for the database at url; empty bin means DefaultBin
func New(bin, url string) *Dumper {
	if bin == "" {
		bin = DefaultBin
	}
	return &Dumper{Bin: bin, URL: url}
}

// Args returns the pg_dump arguments for writing to path
// the dump drops and recreates objects so it loads into an existing database
func (d *Dumper) Args(path string) []string {
	return []string{
		"--dbname=" + d.URL,
		"--clean",
		"--if-exists",
		"--no-owner",
		"--no-privileges",
		"--file=" + path,
	}
}

// Dump writes a plain sql dump to path
func (d *Dumper) Dump(ctx context.Context, path string) error {
	if d.URL == "" {
		return errors.New("dump: database url is empty")
	}
	var stderr bytes.Buffer
	cmd := command(ctx, d.Bin, d.Args(path)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", d.Bin, err, msg)
		}
		return fmt.Errorf("%s: %w", d.Bin, err)
	}
	return nil
}
