package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobTranscribe JobType = "transcribe"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TranscribeParams are parameters for a transcription job
type TranscribeParams struct {
	Engine     string `json:"engine"`      // "whisper-server", "groq", "whisper-cli"
	Language   string `json:"language"`    // language code passed to the engine, e.g. "en"
	Correct    bool   `json:"correct"`     // run the LLM correction pass after transcription
	Style      string `json:"style"`       // correction style: "standard", "formal", "casual"
	SourceName string `json:"source_name"` // original upload filename, for display
}

// SegmentText is one transcribed chunk. Segments are listed in the order
// they finished transcribing, not source order.
type SegmentText struct {
	Index int    `json:"index"` // chunk position in the source audio
	Text  string `json:"text"`
}

// TranscribeResult is the output of a successful transcription
type TranscribeResult struct {
	TranscriptionID string        `json:"transcription_id"`
	RawText         string        `json:"raw_text"`
	CorrectedText   string        `json:"corrected_text,omitempty"`
	Segments        []SegmentText `json:"segments,omitempty"`
	DurationSecs    float64       `json:"duration_secs"`
	ProcessingSecs  float64       `json:"processing_secs"`
	Engine          string        `json:"engine"`
	Model           string        `json:"model"`
	CorrectionModel string        `json:"correction_model,omitempty"`
}

// JobHandler processes a job. The pipeline package provides the implementation.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
