// Package service writes a finished report and its database snapshot to disk
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"usagereport/internal/adapters/export/archive"
	"usagereport/internal/adapters/export/csvreport"
	"usagereport/internal/adapters/export/resultdir"
	"usagereport/internal/adapters/export/upload"
	"usagereport/internal/core/report"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/metrics"
	"usagereport/internal/services/report/domain"
)

// Dumper snapshots the sample database into a file
type Dumper interface {
	Dump(ctx context.Context, path string) error
}

// Uploader ships a finished archive somewhere off the box
type Uploader interface {
	File(ctx context.Context, site, path string) (*upload.Output, error)
}

// Config controls where and how results are written
type Config struct {
	StorageDir string
	Scaled     bool
}

// Svc writes result bundles
type Svc struct {
	cfg    Config
	dump   Dumper   // optional
	upload Uploader // optional
	now    func() time.Time
}

// New creates the export service; dump and up may be nil to skip those steps
func New(cfg Config, dump Dumper, up Uploader) *Svc {
	return &Svc{cfg: cfg, dump: dump, upload: up, now: time.Now}
}

// Result lists what a bundle run produced
type Result struct {
	Dir     string
	CSV     string
	Archive string
	// DumpErr is set when the snapshot failed; the report is still usable
	DumpErr error
	// Uploaded is nil when no uploader is configured or the upload failed
	Uploaded  *upload.Output
	UploadErr error
}

// Bundle creates the result directory, snapshots the database, writes the csv,
// packs the directory into an archive moved inside it and removes the raw dump
func (s *Svc) Bundle(ctx context.Context, rep domain.Report, site string) (Result, error) {
	log := logger.C(ctx).With().Str("mod", "export").Logger()
	l := resultdir.New(s.cfg.StorageDir, site, s.now())
	res := Result{Dir: l.Dir(), CSV: l.CSV()}

	err := l.Prepare()
	metrics.IncExport("dir", err)
	if err != nil {
		return res, err
	}

	if s.dump != nil {
		res.DumpErr = s.dump.Dump(ctx, l.SQL())
		metrics.IncExport("dump", res.DumpErr)
		if res.DumpErr != nil {
			log.Warn().Err(res.DumpErr).Msg("export: database dump failed; report continues")
		}
	}

	err = csvreport.WriteFile(l.CSV(), rep.Entries, rep.MaxBucket, report.RowOptions{
		Interval: rep.Interval,
		Scaled:   s.cfg.Scaled,
		Location: rep.Location,
	})
	metrics.IncExport("csv", err)
	if err != nil {
		return res, err
	}

	err = s.pack(ctx, l)
	metrics.IncExport("archive", err)
	if err != nil {
		return res, err
	}
	res.Archive = l.Archive()

	if s.upload != nil {
		res.Uploaded, res.UploadErr = s.upload.File(ctx, site, res.Archive)
		metrics.IncExport("upload", res.UploadErr)
		if res.UploadErr != nil {
			log.Error().Err(res.UploadErr).Str("archive", res.Archive).Msg("export: upload failed")
		} else {
			log.Info().Str("bucket", res.Uploaded.Bucket).Str("key", res.Uploaded.Key).Msg("export: uploaded")
		}
	}

	log.Info().Str("dir", res.Dir).Int("entries", len(rep.Entries)).Msg("export: bundle written")
	return res, nil
}

func (s *Svc) pack(ctx context.Context, l resultdir.Layout) error {
	staged := l.StagedArchive()
	if err := archive.Dir(ctx, l.Dir(), staged); err != nil {
		return err
	}
	if err := os.Rename(staged, l.Archive()); err != nil {
		return fmt.Errorf("move archive: %w", err)
	}
	if err := os.Remove(l.SQL()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove dump: %w", err)
	}
	return nil
}

// CSV writes only the report file to path
func (s *Svc) CSV(rep domain.Report, path string) error {
	err := csvreport.WriteFile(path, rep.Entries, rep.MaxBucket, report.RowOptions{
		Interval: rep.Interval,
		Scaled:   s.cfg.Scaled,
		Location: rep.Location,
	})
	metrics.IncExport("csv", err)
	return err
}
