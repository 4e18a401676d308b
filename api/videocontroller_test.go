package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"yttmp3/cache"
	"yttmp3/jobs"
	"yttmp3/signature"
	"yttmp3/types"
	"yttmp3/youtube"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeExtractor returns canned metadata or a canned error.
type fakeExtractor struct {
	info *types.VideoInfo
	err  error
}

func (f *fakeExtractor) FetchInfo(_ context.Context, _ string) (*types.VideoInfo, error) {
	return f.info, f.err
}

// fakeFallback records whether it was consulted.
type fakeFallback struct {
	info   *types.VideoInfo
	err    error
	called bool
}

func (f *fakeFallback) FetchInfo(_ context.Context, _ string) (*types.VideoInfo, error) {
	f.called = true
	return f.info, f.err
}

// fakeDownloader writes a small stream file or fails with a canned error.
// When release is set, the download blocks until the channel closes.
type fakeDownloader struct {
	dir     string
	err     error
	release chan struct{}
}

func (f *fakeDownloader) DownloadAudio(ctx context.Context, _ string, progress func(float64)) (string, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if progress != nil {
		progress(100)
	}
	path := filepath.Join(f.dir, "stream.m4a")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func copyEncoder(inputPath, outputPath, title, artist string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func sampleInfo() *types.VideoInfo {
	return &types.VideoInfo{
		VideoID:  "dQw4w9WgXcQ",
		Title:    "Test Song",
		Duration: "3:32",
		Channel:  "Test Channel",
	}
}

func newTestRouter(t *testing.T, extractor Extractor, fallback MetadataFallback, dl jobs.AudioDownloader, signer *signature.Signer) (*gin.Engine, cache.ProgressStore) {
	t.Helper()
	store := cache.NewMemoryStore()
	mgr := jobs.NewManager(dl, copyEncoder, store, t.TempDir(), 2)
	server := NewServer(extractor, fallback, mgr, store, signer)
	return NewRouter(server), store
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVideoInfoSuccess(t *testing.T) {
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	w := postJSON(router, "/api/video-info", map[string]string{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var info types.VideoInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.VideoID != "dQw4w9WgXcQ" || info.Title != "Test Song" {
		t.Errorf("Unexpected info: %+v", info)
	}
	if info.Signature != "" {
		t.Error("Expected no signature when signing is disabled")
	}
}

func TestVideoInfoRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	cases := []struct {
		name    string
		payload any
	}{
		{"missing url", map[string]string{}},
		{"empty url", map[string]string{"url": "   "}},
		{"not youtube", map[string]string{"url": "https://example.com/page"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/api/video-info", tc.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestVideoInfoErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"age restricted", youtube.ErrAgeRestricted, http.StatusForbidden},
		{"unavailable", youtube.ErrUnavailable, http.StatusNotFound},
		{"no metadata", youtube.ErrNoMetadata, http.StatusNotFound},
		{"other", fmt.Errorf("network down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t, &fakeExtractor{err: tc.err}, nil, &fakeDownloader{dir: t.TempDir()}, nil)
			w := postJSON(router, "/api/video-info", map[string]string{"url": "https://youtu.be/dQw4w9WgXcQ"})
			if w.Code != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestVideoInfoFallback(t *testing.T) {
	fallback := &fakeFallback{info: sampleInfo()}
	router, _ := newTestRouter(t, &fakeExtractor{err: fmt.Errorf("bot check")}, fallback, &fakeDownloader{dir: t.TempDir()}, nil)

	w := postJSON(router, "/api/video-info", map[string]string{"url": "https://youtu.be/dQw4w9WgXcQ"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 via fallback, got %d", w.Code)
	}
	if !fallback.called {
		t.Error("Expected Data API fallback to be consulted")
	}
}

func TestVideoInfoIssuesSignature(t *testing.T) {
	signer := signature.New("test-secret")
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, signer)

	w := postJSON(router, "/api/video-info", map[string]string{"url": "https://youtu.be/dQw4w9WgXcQ"})

	var info types.VideoInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.Signature == "" {
		t.Fatal("Expected signature to be issued")
	}

	tok, err := signature.Decode(info.Signature)
	if err != nil {
		t.Fatalf("Expected decodable signature, got %v", err)
	}
	if err := signer.Verify("dQw4w9WgXcQ", "mp3", tok); err != nil {
		t.Errorf("Expected issued token to verify, got %v", err)
	}
}

func TestDownloadStreamsMP3(t *testing.T) {
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	w := postJSON(router, "/api/download", map[string]string{
		"url":   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"title": "Test Song",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Test Song.mp3") {
		t.Errorf("Expected attachment filename in disposition, got %q", cd)
	}
	if w.Body.String() != "fake audio" {
		t.Errorf("Expected converted bytes in body, got %q", w.Body.String())
	}
}

func TestDownloadRemovesOutputAfterStreaming(t *testing.T) {
	dir := t.TempDir()
	store := cache.NewMemoryStore()
	mgr := jobs.NewManager(&fakeDownloader{dir: dir}, copyEncoder, store, dir, 2)
	router := NewRouter(NewServer(&fakeExtractor{info: sampleInfo()}, nil, mgr, store, nil))

	w := postJSON(router, "/api/download", map[string]string{
		"url":   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"title": "Test Song",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	leftover, _ := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if len(leftover) != 0 {
		t.Errorf("Expected output to be removed after streaming, found %v", leftover)
	}
}

func TestDownloadDuplicateRequestsBothStream(t *testing.T) {
	dir := t.TempDir()
	release := make(chan struct{})
	store := cache.NewMemoryStore()
	mgr := jobs.NewManager(&fakeDownloader{dir: dir, release: release}, copyEncoder, store, dir, 2)
	router := NewRouter(NewServer(&fakeExtractor{info: sampleInfo()}, nil, mgr, store, nil))

	payload := map[string]string{
		"url":   "https://youtu.be/dQw4w9WgXcQ",
		"title": "Test Song",
	}

	// Two concurrent requests for the same video share one job; both must
	// receive the full file.
	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = postJSON(router, "/api/download", payload)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, w := range results {
		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		if w.Body.String() != "fake audio" {
			t.Errorf("Request %d: expected converted bytes, got %q", i, w.Body.String())
		}
	}

	leftover, _ := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if len(leftover) != 0 {
		t.Errorf("Expected output to be removed after both streamed, found %v", leftover)
	}
}

func TestDownloadRejectsInvalidURL(t *testing.T) {
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	w := postJSON(router, "/api/download", map[string]string{"url": "https://example.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestDownloadRequiresValidSignature(t *testing.T) {
	signer := signature.New("test-secret")
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, signer)

	// No signature at all.
	w := postJSON(router, "/api/download", map[string]string{
		"url": "https://youtu.be/dQw4w9WgXcQ", "title": "Test",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without signature, got %d", w.Code)
	}

	// Signature for a different video.
	tok, _ := signer.Issue("otherVideo1", "mp3")
	w = postJSON(router, "/api/download", map[string]string{
		"url": "https://youtu.be/dQw4w9WgXcQ", "title": "Test", "signature": tok.Encode(),
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for mismatched signature, got %d", w.Code)
	}

	// Valid signature.
	tok, _ = signer.Issue("dQw4w9WgXcQ", "mp3")
	w = postJSON(router, "/api/download", map[string]string{
		"url": "https://youtu.be/dQw4w9WgXcQ", "title": "Test", "signature": tok.Encode(),
	})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid signature, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDownloadConversionFailure(t *testing.T) {
	dl := &fakeDownloader{dir: t.TempDir(), err: fmt.Errorf("%w", youtube.ErrUnavailable)}
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, dl, nil)

	w := postJSON(router, "/api/download", map[string]string{
		"url": "https://youtu.be/dQw4w9WgXcQ", "title": "Test",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unavailable video, got %d", w.Code)
	}
}

func TestConversionErrorMapping(t *testing.T) {
	server := &Server{}
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"too large", jobs.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"age restricted", youtube.ErrAgeRestricted, http.StatusForbidden},
		{"unavailable", youtube.ErrUnavailable, http.StatusNotFound},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			server.respondConversionError(c, tc.err)
			if w.Code != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	router, store := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	_ = store.SetProgress(context.Background(), "job-1", 55)

	req := httptest.NewRequest(http.MethodGet, "/api/progress/job-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["progress"] != 55 {
		t.Errorf("Expected progress 55, got %d", resp["progress"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/progress/unknown", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown job, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, &fakeExtractor{info: sampleInfo()}, nil, &fakeDownloader{dir: t.TempDir()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("Expected healthy status, got %s", w.Body.String())
	}
}
