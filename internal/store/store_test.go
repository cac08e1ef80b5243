package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureAdmin(t *testing.T) {
	s := newTestStore(t)

	if err := s.EnsureAdmin("admin", "admin"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	u, err := s.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("Role = %q, want admin", u.Role)
	}
	if u.Password == "admin" {
		t.Error("password stored in plaintext")
	}

	// second call must not create another admin
	if err := s.EnsureAdmin("other", "other"); err != nil {
		t.Fatalf("EnsureAdmin() second call error = %v", err)
	}
	if _, err := s.GetUserByUsername("other"); err == nil {
		t.Error("expected no second admin user")
	}
}

func TestGetUserByID(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureAdmin("admin", "admin"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	u, err := s.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	got, err := s.GetUserByID(u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Username != "admin" {
		t.Errorf("Username = %q, want admin", got.Username)
	}
}

func TestTranscriptionCRUD(t *testing.T) {
	s := newTestStore(t)

	rec := &Transcription{
		ID:              "t-1",
		SourceName:      "meeting.wav",
		Engine:          "groq",
		Model:           "whisper-large-v3",
		Language:        "en",
		DurationSecs:    125.4,
		SegmentCount:    3,
		RawText:         "hello world this is raw",
		CorrectedText:   "Hello world, this is corrected.",
		CorrectionModel: "mixtral-8x7b-32768",
		ProcessingSecs:  8.2,
	}
	if err := s.SaveTranscription(rec); err != nil {
		t.Fatalf("SaveTranscription() error = %v", err)
	}

	got, err := s.GetTranscription("t-1")
	if err != nil {
		t.Fatalf("GetTranscription() error = %v", err)
	}
	if got.RawText != rec.RawText {
		t.Errorf("RawText = %q, want %q", got.RawText, rec.RawText)
	}
	if got.CorrectedText != rec.CorrectedText {
		t.Errorf("CorrectedText = %q, want %q", got.CorrectedText, rec.CorrectedText)
	}
	if got.SegmentCount != 3 {
		t.Errorf("SegmentCount = %d, want 3", got.SegmentCount)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}

	list, err := s.ListTranscriptions(10)
	if err != nil {
		t.Fatalf("ListTranscriptions() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}

	if err := s.DeleteTranscription("t-1"); err != nil {
		t.Fatalf("DeleteTranscription() error = %v", err)
	}
	if _, err := s.GetTranscription("t-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTranscription after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTranscription("t-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTranscription twice: err = %v, want ErrNotFound", err)
	}
}

func TestListTranscriptionsEmpty(t *testing.T) {
	s := newTestStore(t)
	list, err := s.ListTranscriptions(0)
	if err != nil {
		t.Fatalf("ListTranscriptions() error = %v", err)
	}
	if list == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(list) != 0 {
		t.Errorf("len(list) = %d, want 0", len(list))
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetSetting("default_engine", "groq"); got != "groq" {
		t.Errorf("GetSetting default = %q, want groq", got)
	}
	if err := s.SetSetting("default_engine", "whisper-server"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if got := s.GetSetting("default_engine", "groq"); got != "whisper-server" {
		t.Errorf("GetSetting = %q, want whisper-server", got)
	}
	// upsert overwrites
	if err := s.SetSetting("default_engine", "whisper-cli"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings() error = %v", err)
	}
	if all["default_engine"] != "whisper-cli" {
		t.Errorf("GetAllSettings()[default_engine] = %q, want whisper-cli", all["default_engine"])
	}
}
