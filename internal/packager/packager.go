// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package packager assembles a rendered site into an on-disk output
// directory and serializes it into a zip archive. The filesystem is an
// afero.Fs so tests run against an in-memory tree. Every output directory
// gets a unique suffix, so concurrent requests for the same business name
// never collide.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"sitesmith/internal/apperr"
	"sitesmith/internal/sanitize"
	"sitesmith/internal/site"
)

// Site is everything the packager writes for one request.
type Site struct {
	// BusinessName is the raw business name; the packager sanitizes it.
	BusinessName string
	// Pages are the rendered documents, written at the directory root.
	Pages []site.Page
	// Images are bare filenames to copy from the uploads area into images/.
	Images []string
}

// Result describes a finished package, with the paths the caller must
// remove once the archive has been delivered.
type Result struct {
	ZipPath string
	Dir     string
}

// Packager writes rendered sites to disk and zips them.
type Packager struct {
	fs         afero.Fs
	outputRoot string // parent of per-request output directories
	uploadDir  string // source area for referenced images
	strict     bool   // fail on missing image sources instead of skipping
}

// New creates a Packager rooted at outputRoot, copying images from
// uploadDir. When strict is true a missing image source aborts packaging.
func New(fs afero.Fs, outputRoot, uploadDir string, strict bool) *Packager {
	return &Packager{
		fs:         fs,
		outputRoot: outputRoot,
		uploadDir:  uploadDir,
		strict:     strict,
	}
}

// Package writes the site's documents and images into a fresh output
// directory and zips the directory. Directory creation and archive
// failures are fatal; no partial archive is ever returned.
func (p *Packager) Package(s Site) (*Result, error) {
	name := sanitize.DirName(s.BusinessName)
	dir := filepath.Join(p.outputRoot, name+"_"+uuid.NewString())

	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.Filesystem, "Could not create the site output directory.",
			fmt.Errorf("mkdir %s: %w", dir, err))
	}

	for _, page := range s.Pages {
		target := filepath.Join(dir, page.Filename)
		if err := afero.WriteFile(p.fs, target, page.HTML, 0o644); err != nil {
			p.removeAll(dir)
			return nil, apperr.Wrap(apperr.Filesystem, "Could not write a site document.",
				fmt.Errorf("write %s: %w", target, err))
		}
	}

	if err := p.copyImages(dir, s.Images); err != nil {
		p.removeAll(dir)
		return nil, err
	}

	zipPath := dir + ".zip"
	if err := p.writeZip(dir, name, zipPath); err != nil {
		p.removeAll(dir)
		p.remove(zipPath)
		return nil, apperr.Wrap(apperr.Filesystem, "Could not create the site archive.", err)
	}

	return &Result{ZipPath: zipPath, Dir: dir}, nil
}

// copyImages copies each referenced upload into the images/ subdirectory.
// In lenient mode a missing source is skipped with a warning; in strict
// mode it aborts the package.
func (p *Packager) copyImages(dir string, images []string) error {
	if len(images) == 0 {
		return nil
	}

	imagesDir := filepath.Join(dir, "images")
	if err := p.fs.MkdirAll(imagesDir, 0o755); err != nil {
		return apperr.Wrap(apperr.Filesystem, "Could not create the images directory.",
			fmt.Errorf("mkdir %s: %w", imagesDir, err))
	}

	for _, img := range images {
		// Image references arrive as bare filenames; anything else would
		// let a request escape the uploads area.
		base := filepath.Base(img)
		src := filepath.Join(p.uploadDir, base)

		if _, err := p.fs.Stat(src); err != nil {
			if os.IsNotExist(err) && !p.strict {
				slog.Warn("skipping missing image source", "path", src)
				continue
			}
			return apperr.Wrap(apperr.Filesystem, "A referenced image could not be read.",
				fmt.Errorf("stat %s: %w", src, err))
		}

		if err := p.copyFile(src, filepath.Join(imagesDir, base)); err != nil {
			return apperr.Wrap(apperr.Filesystem, "A referenced image could not be copied.", err)
		}
	}
	return nil
}

// copyFile copies a single file within the packager filesystem.
func (p *Packager) copyFile(src, dst string) error {
	in, err := p.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := p.fs.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// writeZip walks dir recursively and writes every file into a zip at
// zipPath. Entries are rooted at the sanitized site name, so the archive
// unpacks into a single folder named consistently with the output
// directory.
func (p *Packager) writeZip(dir, name, zipPath string) error {
	zipFile, err := p.fs.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip %s: %w", zipPath, err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)

	err = afero.Walk(p.fs, dir, func(fpath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, fpath)
		if err != nil {
			return fmt.Errorf("rel %s: %w", fpath, err)
		}
		entry := path.Join(name, filepath.ToSlash(rel))

		w, err := zw.Create(entry)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", entry, err)
		}

		f, err := p.fs.Open(fpath)
		if err != nil {
			return fmt.Errorf("open %s: %w", fpath, err)
		}
		defer f.Close()

		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("write entry %s: %w", entry, err)
		}
		return nil
	})
	if err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

// Cleanup removes the archive and output directory. It runs after the
// response has been streamed, so failures are logged, never surfaced.
func (p *Packager) Cleanup(res *Result) {
	if res == nil {
		return
	}
	p.remove(res.ZipPath)
	p.removeAll(res.Dir)
}

// Open opens the finished archive for streaming.
func (p *Packager) Open(res *Result) (afero.File, os.FileInfo, error) {
	f, err := p.fs.Open(res.ZipPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive %s: %w", res.ZipPath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat archive %s: %w", res.ZipPath, err)
	}
	return f, info, nil
}

func (p *Packager) remove(fpath string) {
	if fpath == "" {
		return
	}
	if err := p.fs.Remove(fpath); err != nil && !os.IsNotExist(err) {
		slog.Warn("cleanup failed", "path", fpath, "error", err)
	}
}

func (p *Packager) removeAll(dir string) {
	if dir == "" || strings.TrimSpace(dir) == string(filepath.Separator) {
		return
	}
	if err := p.fs.RemoveAll(dir); err != nil {
		slog.Warn("cleanup failed", "path", dir, "error", err)
	}
}
