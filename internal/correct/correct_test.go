package correct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestBuildPromptStandard(t *testing.T) {
	got := BuildPrompt("standard", "helo world")
	want := `Please correct any typos or grammatical errors in the following text: "helo world". ` +
		`Provide a coherent and polished version. ` +
		`Just give the corrected text without any additional information.`
	if got != want {
		t.Errorf("BuildPrompt() = %q, want %q", got, want)
	}

	// empty style behaves as standard
	if BuildPrompt("", "helo world") != want {
		t.Error("empty style should produce the standard prompt")
	}
}

func TestBuildPromptStyles(t *testing.T) {
	formal := BuildPrompt("formal", "x")
	if !strings.Contains(formal, "formal, professional register") {
		t.Errorf("formal prompt missing register instruction: %q", formal)
	}
	casual := BuildPrompt("casual", "x")
	if !strings.Contains(casual, "relaxed and conversational") {
		t.Errorf("casual prompt missing tone instruction: %q", casual)
	}
}

func TestValidStyle(t *testing.T) {
	for _, s := range []string{"", "standard", "formal", "casual"} {
		if !ValidStyle(s) {
			t.Errorf("ValidStyle(%q) = false, want true", s)
		}
	}
	if ValidStyle("shakespearean") {
		t.Error("ValidStyle(shakespearean) = true, want false")
	}
}

func TestCleanResponse(t *testing.T) {
	cases := []struct{ in, want string }{
		{`  hello  `, "hello"},
		{`"hello"`, "hello"},
		{`" hello "`, "hello"},
		{`he said "hi" there`, `he said "hi" there`},
		{`"`, `"`},
		{``, ``},
	}
	for _, c := range cases {
		if got := CleanResponse(c.in); got != c.want {
			t.Errorf("CleanResponse(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func newChatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestGroqCorrectorSuccess(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		var body struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "mixtral-8x7b-32768" {
			t.Errorf("model = %q, want mixtral-8x7b-32768", body.Model)
		}
		if body.Temperature == 0 {
			t.Error("temperature was dropped from the request")
		}
		if body.Temperature > 0.001 {
			t.Errorf("temperature = %v, want effectively zero", body.Temperature)
		}
		if len(body.Messages) != 1 || !strings.Contains(body.Messages[0].Content, "helo wrld") {
			t.Errorf("prompt missing transcript: %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(`"Hello world."`)))
	})

	g := NewGroqCorrector("gsk_test", srv.URL, "mixtral-8x7b-32768")
	res, err := g.Correct(context.Background(), Request{Text: "helo wrld", Style: "standard"})
	if err != nil {
		t.Fatalf("Correct() error = %v", err)
	}
	if res.Text != "Hello world." {
		t.Errorf("Text = %q, want surrounding quotes stripped", res.Text)
	}
	if res.Model != "mixtral-8x7b-32768" {
		t.Errorf("Model = %q", res.Model)
	}
}

func TestGroqCorrectorRetriesTransient(t *testing.T) {
	old := retryPause
	retryPause = 10 * time.Millisecond
	defer func() { retryPause = old }()

	var calls atomic.Int32
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limit reached","type":"requests"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse("Fixed.")))
	})

	g := NewGroqCorrector("gsk_test", srv.URL, "mixtral-8x7b-32768")
	res, err := g.Correct(context.Background(), Request{Text: "fixd"})
	if err != nil {
		t.Fatalf("Correct() error = %v", err)
	}
	if res.Text != "Fixed." {
		t.Errorf("Text = %q, want Fixed.", res.Text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGroqCorrectorGivesUp(t *testing.T) {
	old := retryPause
	retryPause = 10 * time.Millisecond
	defer func() { retryPause = old }()

	var calls atomic.Int32
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server"}}`))
	})

	g := NewGroqCorrector("gsk_test", srv.URL, "mixtral-8x7b-32768")
	if _, err := g.Correct(context.Background(), Request{Text: "x"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls.Load())
	}
}

func TestGroqCorrectorNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"context too long","type":"invalid_request_error"}}`))
	})

	g := NewGroqCorrector("gsk_test", srv.URL, "mixtral-8x7b-32768")
	if _, err := g.Correct(context.Background(), Request{Text: "x"}); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls.Load())
	}
}

func TestIsRetryablePlainErrors(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"dial tcp 127.0.0.1:9999: connection refused", true},
		{"read tcp: connection reset by peer", true},
		{"unexpected EOF", true},
		{"read tcp 10.0.0.5:52114: i/o timeout", true},
		{"invalid api key", false},
	}
	for _, c := range cases {
		if got := isRetryable(errString(c.msg)); got != c.want {
			t.Errorf("isRetryable(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
