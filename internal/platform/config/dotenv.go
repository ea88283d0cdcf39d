package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Load reads .env style files into the process environment
// existing variables win and missing files are skipped; with no arguments ".env" is tried
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
