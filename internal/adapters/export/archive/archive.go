// Package archive packs a result directory into a zstd compressed tarball
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Ext is the file extension archives are written with
const Ext = ".tar.zst"

// Dir writes srcDir as a tar.zst to dst
// entries are named relative to the parent of srcDir so the archive unpacks into one directory
// dst must not live inside srcDir
func Dir(ctx context.Context, srcDir, dst string) (err error) {
	srcDir = filepath.Clean(srcDir)
	if rel, rerr := filepath.Rel(srcDir, filepath.Clean(dst)); rerr == nil && filepath.IsLocal(rel) {
		return fmt.Errorf("archive: %s is inside %s", dst, srcDir)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("archive create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("archive zstd: %w", err)
	}
	tw := tar.NewWriter(zw)

	base := filepath.Dir(srcDir)
	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return addEntry(tw, base, path, d)
	})

	return errors.Join(walkErr, tw.Close(), zw.Close())
}

func addEntry(tw *tar.Writer, base, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}
	name, err := filepath.Rel(base, path)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(name)
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// List returns the entry names of a tar.zst archive in order
func List(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var names []string
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, hdr.Name)
	}
}
