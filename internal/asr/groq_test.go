package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGroqWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gsk_test" {
			t.Errorf("Authorization = %q, want Bearer gsk_test", got)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("model = %q, want whisper-large-v3", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language = %q, want en", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("FormFile() error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello from groq"}`))
	}))
	defer srv.Close()

	g := NewGroqWhisper("gsk_test", srv.URL, "whisper-large-v3")
	res, err := g.Transcribe(context.Background(), Request{Path: writeTestAudio(t), Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if res.Text != "hello from groq" {
		t.Errorf("Text = %q, want hello from groq", res.Text)
	}
	if res.Model != "whisper-large-v3" {
		t.Errorf("Model = %q, want whisper-large-v3", res.Model)
	}
}

func TestGroqWhisperAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	}))
	defer srv.Close()

	g := NewGroqWhisper("gsk_test", srv.URL, "whisper-large-v3")
	if _, err := g.Transcribe(context.Background(), Request{Path: writeTestAudio(t)}); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
