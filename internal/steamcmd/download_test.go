package steamcmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadToFile(t *testing.T) {
	payload := []byte("steamcmd archive bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
		}
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "archive.tar.gz")

	d := NewDownloader()
	if err := d.DownloadToFile(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("DownloadToFile() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("downloaded %q, want %q", data, payload)
	}

	// No stray temp file left behind.
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after successful download")
	}
}

func TestDownloadToFileHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar.gz")

	d := NewDownloader()
	d.retries = 0
	if err := d.DownloadToFile(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected error for 404 response")
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination file should not exist after failed download")
	}
}

func TestDownloadToFileRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar.gz")

	d := NewDownloader()
	if err := d.DownloadToFile(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("DownloadToFile() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestDownloadToFileContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "flaky", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDownloader()
	err := d.DownloadToFile(ctx, server.URL, filepath.Join(t.TempDir(), "x"))
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
