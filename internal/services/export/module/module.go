// Package module wires the export service from config
package module

import (
	"usagereport/internal/adapters/export/dump"
	"usagereport/internal/adapters/export/upload"
	"usagereport/internal/platform/config"
	"usagereport/internal/services/export/service"
)

// Options holds configuration options for exports
type Options struct {
	StorageDir  string
	Scaled      bool
	Dump        bool
	PGDump      string
	OpenVPNConf string
	S3Enabled   bool
	S3          upload.Config
}

// FromConfig reads the export options from config with CORE_EXPORT_ prefix
func FromConfig(cfg config.Conf) Options {
	ec := cfg.Prefix("CORE_EXPORT_")
	return Options{
		StorageDir:  ec.MayString("STORAGE_DIR", "."),
		Scaled:      ec.MayBool("SCALED", false),
		Dump:        ec.MayBool("DUMP", true),
		PGDump:      ec.MayString("PG_DUMP", dump.DefaultBin),
		OpenVPNConf: ec.MayString("OPENVPN_CONF", "/etc/openvpn/client.conf"),
		S3Enabled:   ec.MayBool("S3_ENABLED", false),
		S3: upload.Config{
			Endpoint:        ec.MayString("S3_ENDPOINT", ""),
			AccessKeyID:     ec.MayString("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: ec.MayString("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          ec.MayString("S3_BUCKET", ""),
			Region:          ec.MayString("S3_REGION", "us-east-1"),
			Prefix:          ec.MayString("S3_PREFIX", "usagereport"),
		},
	}
}

// New builds the export service; pgURL feeds the dump step
func New(opts Options, pgURL string) (*service.Svc, error) {
	var d service.Dumper
	if opts.Dump && pgURL != "" {
		d = dump.New(opts.PGDump, pgURL)
	}
	var u service.Uploader
	if opts.S3Enabled {
		up, err := upload.New(opts.S3)
		if err != nil {
			return nil, err
		}
		u = up
	}
	return service.New(service.Config{StorageDir: opts.StorageDir, Scaled: opts.Scaled}, d, u), nil
}
