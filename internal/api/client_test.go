// internal/api/client_test.go
package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelmark/reelmark/internal/export"
)

var _ export.Sink = (*Client)(nil)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.token != "secret123" {
		t.Errorf("expected token=secret123, got %s", c.token)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "")
	if err := c.Healthcheck(context.Background()); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	c := New("http://127.0.0.1:1", "") // nothing listens on port 1
	if err := c.Healthcheck(context.Background()); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "")
	if err := c.Healthcheck(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestUploadExport_Success(t *testing.T) {
	var receivedAuth, receivedFilename string
	var receivedFileContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reviews/add" {
			t.Errorf("expected path /api/v1/reviews/add, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		receivedAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		receivedFilename = r.FormValue("filename")

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("failed to get file: %v", err)
		}
		defer file.Close()
		receivedFileContent, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "mysecret")
	csv := "Video,Time (sec),Annotations\n1,2.50,\"[]\"\n"

	if err := c.UploadExport(context.Background(), "marks.csv", []byte(csv)); err != nil {
		t.Fatalf("UploadExport failed: %v", err)
	}

	if receivedAuth != "Bearer mysecret" {
		t.Errorf("expected Authorization=Bearer mysecret, got %s", receivedAuth)
	}
	if receivedFilename != "marks.csv" {
		t.Errorf("expected filename=marks.csv, got %s", receivedFilename)
	}
	if string(receivedFileContent) != csv {
		t.Errorf("expected file content %q, got %q", csv, string(receivedFileContent))
	}
}

func TestUploadExport_NoTokenOmitsHeader(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent) // any 2xx is a success
	}))
	defer server.Close()

	c := New(server.URL, "")
	if err := c.UploadExport(context.Background(), "marks.csv", []byte("x")); err != nil {
		t.Fatalf("UploadExport failed: %v", err)
	}
	if receivedAuth != "" {
		t.Errorf("expected no Authorization header, got %s", receivedAuth)
	}
}

func TestUploadExport_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad token"))
	}))
	defer server.Close()

	c := New(server.URL, "wrong-secret")
	err := c.UploadExport(context.Background(), "marks.csv", []byte("content"))
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad token") {
		t.Errorf("expected body snippet in error, got %v", err)
	}
}

func TestUploadExport_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(server.URL, "")
	if err := c.UploadExport(ctx, "marks.csv", []byte("content")); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestDeliver_DelegatesToUploadExport(t *testing.T) {
	var receivedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var sink export.Sink = New(server.URL, "s")
	if err := sink.Deliver(context.Background(), "marks.csv", []byte("content")); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if receivedPath != "/api/v1/reviews/add" {
		t.Errorf("expected upload path, got %s", receivedPath)
	}
}
