package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcourier/api/internal/config"
)

func testFetcher() *Fetcher {
	return NewFetcher(&config.FetchConfig{Timeout: 5})
}

func TestFetchWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestFetchFollowsOneRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moved content"))
	}))
	defer final.Close()

	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer hop.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), hop.URL, dest); err != nil {
		t.Fatalf("single 302 hop must be followed: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "moved content" {
		t.Errorf("unexpected content after redirect: %q", data)
	}
}

func TestFetchRejectsSecondRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("too far"))
	}))
	defer final.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer second.Close()

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, second.URL, http.StatusMovedPermanently)
	}))
	defer first.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), first.URL, dest); err == nil {
		t.Fatal("second redirect must fail the fetch")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file may remain after a failed fetch")
	}
}

func TestFetchRejectsOtherRedirectStatuses(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("see other"))
	}))
	defer final.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusSeeOther)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("303 must not be followed")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file may remain after a failed fetch")
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file may be created for a failed status")
	}
}

func TestFetchRemovesPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("short"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := testFetcher().Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("truncated transfer must fail")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("partial file must be removed")
	}
}
