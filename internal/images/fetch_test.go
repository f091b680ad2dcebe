package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeSource struct {
	urls []string
	err  error
}

func (s *fakeSource) SearchImages(_ context.Context, _ string, max int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if max > 0 && len(s.urls) > max {
		return s.urls[:max], nil
	}
	return s.urls, nil
}

func newFetcher(t *testing.T, src CandidateSource) *Fetcher {
	t.Helper()
	return NewFetcher(zerolog.New(os.Stderr), src, 100, 5, 2*time.Second)
}

func TestFetchFirstValidCandidate(t *testing.T) {
	valid := encodePNG(t, 200, 150)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("not an image"))
		case "/small":
			w.Header().Set("Content-Type", "image/png")
			w.Write(encodePNG(t, 50, 50))
		case "/good":
			w.Header().Set("Content-Type", "image/png")
			w.Write(valid)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := &fakeSource{urls: []string{srv.URL + "/broken", srv.URL + "/small", srv.URL + "/good"}}
	dest := filepath.Join(t.TempDir(), "topic_01_image.jpg")

	if err := newFetcher(t, src).Fetch(context.Background(), "robots", dest); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if err := ValidateFile(dest, 100); err != nil {
		t.Errorf("fetched file should validate: %v", err)
	}
}

func TestFetchExhaustedCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	src := &fakeSource{urls: []string{srv.URL + "/a", srv.URL + "/b"}}
	dest := filepath.Join(t.TempDir(), "img.jpg")

	err := newFetcher(t, src).Fetch(context.Background(), "robots", dest)
	if !errors.Is(err, ErrNoImageFound) {
		t.Errorf("expected ErrNoImageFound, got %v", err)
	}
	if _, statErr := os.Stat(dest); statErr == nil {
		t.Error("rejected download should have been removed")
	}
}

func TestFetchEmptyKeywords(t *testing.T) {
	src := &fakeSource{urls: []string{"http://example.com/a"}}
	err := newFetcher(t, src).Fetch(context.Background(), "", filepath.Join(t.TempDir(), "img.jpg"))
	if !errors.Is(err, ErrNoImageFound) {
		t.Errorf("expected ErrNoImageFound for empty keywords, got %v", err)
	}
}

func TestFetchSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("search down")}
	err := newFetcher(t, src).Fetch(context.Background(), "robots", filepath.Join(t.TempDir(), "img.jpg"))
	if err == nil || errors.Is(err, ErrNoImageFound) {
		t.Errorf("source failure should surface, got %v", err)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.png")
	if err := os.WriteFile(good, encodePNG(t, 120, 120), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(good, 100); err != nil {
		t.Errorf("valid image rejected: %v", err)
	}
	if err := ValidateFile(good, 200); err == nil {
		t.Error("undersized image accepted")
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(junk, 10); err == nil {
		t.Error("undecodable file accepted")
	}
}
