package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitesmith/internal/apperr"
	"sitesmith/internal/imaging"
)

// fakeStore records uploads in memory.
type fakeStore struct {
	uploads map[string][]byte
	deleted []string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (s *fakeStore) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if s.err != nil {
		return s.err
	}
	data, _ := io.ReadAll(body)
	s.uploads[key] = data
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) FileURL(key string) string {
	return "https://img.test/" + key
}

// fakeProcessor returns fixed variants without touching libvips.
type fakeProcessor struct {
	err error
}

func (p *fakeProcessor) Process(original []byte) ([]imaging.ProcessedImage, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []imaging.ProcessedImage{
		{Name: "sm", Width: 640, Height: 480, Data: []byte("sm"), ContentType: "image/webp"},
		{Name: "lg", Width: 1920, Height: 1440, Data: []byte("lg"), ContentType: "image/webp"},
	}, nil
}

// fakeImageGen returns canned image bytes.
type fakeImageGen struct {
	data     []byte
	err      error
	supports bool
	prompt   string
}

func (g *fakeImageGen) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	g.prompt = prompt
	if g.err != nil {
		return nil, "", g.err
	}
	return g.data, "image/png", nil
}

func (g *fakeImageGen) SupportsImageGeneration() bool { return g.supports }

func TestImagesUpload(t *testing.T) {
	store := newFakeStore()
	h := NewImages(store, &fakeProcessor{}, &fakeImageGen{supports: true}, false)

	body, ct := multipartBody(t, map[string][]byte{"photo.png": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Images []hostedImage `json:"images"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Images) != 1 {
		t.Fatalf("images: got %d, want 1", len(resp.Images))
	}
	img := resp.Images[0]
	if img.Width != 1920 || img.Height != 1440 {
		t.Errorf("largest variant should be returned, got %dx%d", img.Width, img.Height)
	}
	if img.Format != "webp" {
		t.Errorf("format: got %q, want webp", img.Format)
	}
	if !strings.HasPrefix(img.URL, "https://img.test/images/") {
		t.Errorf("url: got %q, want host URL", img.URL)
	}

	// Every variant must have been uploaded.
	if len(store.uploads) != 2 {
		t.Errorf("uploads: got %d, want 2 variants", len(store.uploads))
	}
}

func TestImagesUploadRejectsNonImage(t *testing.T) {
	h := NewImages(newFakeStore(), &fakeProcessor{}, &fakeImageGen{supports: true}, false)

	body, ct := multipartBody(t, map[string][]byte{"doc.txt": []byte("just text content here")})
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestImagesUploadNoStorage(t *testing.T) {
	h := NewImages(nil, &fakeProcessor{}, &fakeImageGen{supports: true}, false)

	body, ct := multipartBody(t, map[string][]byte{"photo.png": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestImagesUploadProcessingFailure(t *testing.T) {
	h := NewImages(newFakeStore(), &fakeProcessor{err: errors.New("corrupt image")}, &fakeImageGen{supports: true}, false)

	body, ct := multipartBody(t, map[string][]byte{"photo.png": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != apperr.ImageProcessing.Code() {
		t.Errorf("code: got %q, want %q", resp.Code, apperr.ImageProcessing.Code())
	}
}

func TestGenerateImage(t *testing.T) {
	store := newFakeStore()
	gen := &fakeImageGen{data: pngBytes, supports: true}
	h := NewImages(store, &fakeProcessor{}, gen, false)

	req := httptest.NewRequest(http.MethodPost, "/api/images/generate-image",
		strings.NewReader(`{"prompt":"a cozy bakery storefront"}`))
	rr := httptest.NewRecorder()
	h.GenerateImage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if gen.prompt != "a cozy bakery storefront" {
		t.Errorf("prompt: got %q", gen.prompt)
	}

	var resp struct {
		Image hostedImage `json:"image"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Image.URL == "" {
		t.Error("image URL should not be empty")
	}
	if resp.Image.Format != "webp" {
		t.Errorf("format: got %q, want webp", resp.Image.Format)
	}
	if len(store.uploads) == 0 {
		t.Error("generated image variants should have been uploaded")
	}
}

func TestGenerateImageMissingPrompt(t *testing.T) {
	h := NewImages(newFakeStore(), &fakeProcessor{}, &fakeImageGen{supports: true}, false)

	for _, body := range []string{`{}`, `{"prompt":""}`, `{"prompt":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/images/generate-image", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.GenerateImage(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status got %d, want 400", body, rr.Code)
		}
	}
}

func TestGenerateImageUnsupportedProvider(t *testing.T) {
	h := NewImages(newFakeStore(), &fakeProcessor{}, &fakeImageGen{supports: false}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/images/generate-image",
		strings.NewReader(`{"prompt":"anything"}`))
	rr := httptest.NewRecorder()
	h.GenerateImage(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestGenerateImageUpstreamFailure(t *testing.T) {
	gen := &fakeImageGen{err: apperr.Wrap(apperr.Upstream, "The AI provider request failed.", errors.New("quota")), supports: true}
	h := NewImages(newFakeStore(), &fakeProcessor{}, gen, false)

	req := httptest.NewRequest(http.MethodPost, "/api/images/generate-image",
		strings.NewReader(`{"prompt":"anything"}`))
	rr := httptest.NewRecorder()
	h.GenerateImage(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "upstream_error" {
		t.Errorf("code: got %q, want upstream_error", resp.Code)
	}
}
