// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	// maxLocalUploadSize is the per-file limit for local uploads (10 MB).
	maxLocalUploadSize = 10 << 20

	// maxUploadFiles is the maximum number of files per upload request.
	maxUploadFiles = 5
)

// allowedImageTypes defines MIME types accepted for image upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploader handles multipart image uploads into the local uploads area.
type Uploader struct {
	fs        afero.Fs
	uploadDir string
}

// NewUploader creates the local upload handler. The upload directory is
// created if it does not exist.
func NewUploader(fs afero.Fs, uploadDir string) (*Uploader, error) {
	if err := fs.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{fs: fs, uploadDir: uploadDir}, nil
}

// Upload accepts up to 5 image files in the multipart field "images",
// stores them under unique names and returns their serving URLs.
func (u *Uploader) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFiles*maxLocalUploadSize+1024)
	if err := r.ParseMultipartForm(maxLocalUploadSize); err != nil {
		writeErrorMsg(w, http.StatusRequestEntityTooLarge, "validation_error", "Upload too large. Maximum size is 10 MB per file.")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "No files provided in field \"images\".")
		return
	}
	if len(files) > maxUploadFiles {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Too many files (max 5).")
		return
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		if header.Size > maxLocalUploadSize {
			writeErrorMsg(w, http.StatusRequestEntityTooLarge, "validation_error",
				fmt.Sprintf("File %q is too large. Maximum size is 10 MB.", header.Filename))
			return
		}

		url, err := u.saveFile(header)
		if err != nil {
			if strings.Contains(err.Error(), "not allowed") {
				writeErrorMsg(w, http.StatusBadRequest, "validation_error", err.Error())
				return
			}
			slog.Error("upload save failed", "error", err, "file", header.Filename)
			writeErrorMsg(w, http.StatusInternalServerError, "filesystem_error", "Failed to save uploaded file.")
			return
		}
		urls = append(urls, url)
	}

	writeJSON(w, http.StatusOK, map[string]any{"urls": urls})
}

// saveFile validates a single uploaded file and writes it to the
// uploads area under a uuid filename. Returns the serving URL.
func (u *Uploader) saveFile(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("file type %q is not allowed", contentType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek upload: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	name := uuid.New().String() + ext

	dst, err := u.fs.Create(filepath.Join(u.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + name, nil
}

// extensionFromType returns a file extension for known image MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
