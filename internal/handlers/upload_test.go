package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// pngBytes carries the PNG magic so MIME sniffing detects image/png.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

// multipartBody builds a multipart form with the given files under the
// "images" field, returning the body and content type.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func newTestUploader(t *testing.T) (*Uploader, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	u, err := NewUploader(fs, "uploads")
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}
	return u, fs
}

func TestUploadAcceptsImages(t *testing.T) {
	u, fs := newTestUploader(t)

	body, ct := multipartBody(t, map[string][]byte{
		"photo1.png": pngBytes,
		"photo2.png": pngBytes,
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	u.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		URLs []string `json:"urls"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.URLs) != 2 {
		t.Fatalf("urls: got %d, want 2", len(resp.URLs))
	}
	for _, url := range resp.URLs {
		if !strings.HasPrefix(url, "/uploads/") {
			t.Errorf("url %q should start with /uploads/", url)
		}
		if !strings.HasSuffix(url, ".png") {
			t.Errorf("url %q should keep the .png extension", url)
		}
		// File must exist on disk under the returned name.
		name := strings.TrimPrefix(url, "/uploads/")
		if ok, _ := afero.Exists(fs, "uploads/"+name); !ok {
			t.Errorf("uploaded file %q not found on disk", name)
		}
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	u, _ := newTestUploader(t)

	body, ct := multipartBody(t, map[string][]byte{
		"notes.txt": []byte("plain text, not an image"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	u.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not allowed") {
		t.Errorf("body: got %q, want a type rejection message", rr.Body.String())
	}
}

func TestUploadRejectsNoFiles(t *testing.T) {
	u, _ := newTestUploader(t)

	body, ct := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	u.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestUploadRejectsTooManyFiles(t *testing.T) {
	u, _ := newTestUploader(t)

	files := make(map[string][]byte)
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"} {
		files[name] = pngBytes
	}
	body, ct := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	u.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Too many files") {
		t.Errorf("body: got %q, want a file count rejection", rr.Body.String())
	}
}

func TestUploadUniqueNames(t *testing.T) {
	u, _ := newTestUploader(t)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		body, ct := multipartBody(t, map[string][]byte{"same.png": pngBytes})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		u.Upload(rr, req)

		var resp struct {
			URLs []string `json:"urls"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if seen[resp.URLs[0]] {
			t.Errorf("url %q reused across uploads of the same filename", resp.URLs[0])
		}
		seen[resp.URLs[0]] = true
	}
}
