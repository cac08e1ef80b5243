package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk_000.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperServerTranscribe(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("response_format"); got != "json" {
			t.Errorf("response_format = %q, want json", got)
		}
		if got := r.FormValue("temperature"); got != "0.0" {
			t.Errorf("temperature = %q, want 0.0", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language = %q, want en", got)
		}
		if _, header, err := r.FormFile("file"); err != nil {
			t.Errorf("FormFile() error = %v", err)
		} else if header.Filename != "chunk_000.wav" {
			t.Errorf("filename = %q, want chunk_000.wav", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  hello from whisper  "}`))
	}))
	defer srv.Close()

	c := NewWhisperServerClient(srv.URL + "/")
	res, err := c.Transcribe(context.Background(), Request{Path: writeTestAudio(t), Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if gotPath != "/inference" {
		t.Errorf("request path = %q, want /inference", gotPath)
	}
	if res.Text != "hello from whisper" {
		t.Errorf("Text = %q, want trimmed text", res.Text)
	}
}

func TestWhisperServerOmitsAutoLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Error("language field should be omitted for auto")
		}
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	c := NewWhisperServerClient(srv.URL)
	if _, err := c.Transcribe(context.Background(), Request{Path: writeTestAudio(t), Language: "auto"}); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
}

func TestWhisperServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWhisperServerClient(srv.URL)
	_, err := c.Transcribe(context.Background(), Request{Path: writeTestAudio(t)})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should mention status code", err)
	}
}

func TestWhisperServerMissingFile(t *testing.T) {
	c := NewWhisperServerClient("http://localhost:1")
	if _, err := c.Transcribe(context.Background(), Request{Path: "/does/not/exist.wav"}); err == nil {
		t.Fatal("expected error for missing audio file")
	}
}
