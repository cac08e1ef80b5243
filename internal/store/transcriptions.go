package store

import (
	"database/sql"
	"errors"
	"time"
)

type Transcription struct {
	ID              string    `json:"id"`
	SourceName      string    `json:"source_name"`
	Engine          string    `json:"engine"`
	Model           string    `json:"model"`
	Language        string    `json:"language"`
	DurationSecs    float64   `json:"duration_secs"`
	SegmentCount    int       `json:"segment_count"`
	RawText         string    `json:"raw_text"`
	CorrectedText   string    `json:"corrected_text"`
	CorrectionModel string    `json:"correction_model"`
	ProcessingSecs  float64   `json:"processing_secs"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *Store) SaveTranscription(t *Transcription) error {
	_, err := s.db.Exec(`
		INSERT INTO transcriptions
			(id, source_name, engine, model, language, duration_secs, segment_count,
			 raw_text, corrected_text, correction_model, processing_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SourceName, t.Engine, t.Model, t.Language, t.DurationSecs, t.SegmentCount,
		t.RawText, t.CorrectedText, t.CorrectionModel, t.ProcessingSecs,
	)
	return err
}

func (s *Store) GetTranscription(id string) (*Transcription, error) {
	t := &Transcription{}
	err := s.db.QueryRow(`
		SELECT id, source_name, engine, model, language, duration_secs, segment_count,
		       raw_text, corrected_text, correction_model, processing_secs, created_at
		FROM transcriptions WHERE id = ?`, id,
	).Scan(&t.ID, &t.SourceName, &t.Engine, &t.Model, &t.Language, &t.DurationSecs,
		&t.SegmentCount, &t.RawText, &t.CorrectedText, &t.CorrectionModel,
		&t.ProcessingSecs, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTranscriptions returns the most recent transcriptions, newest first.
func (s *Store) ListTranscriptions(limit int) ([]Transcription, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, source_name, engine, model, language, duration_secs, segment_count,
		       raw_text, corrected_text, correction_model, processing_secs, created_at
		FROM transcriptions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Transcription
	for rows.Next() {
		var t Transcription
		if err := rows.Scan(&t.ID, &t.SourceName, &t.Engine, &t.Model, &t.Language,
			&t.DurationSecs, &t.SegmentCount, &t.RawText, &t.CorrectedText,
			&t.CorrectionModel, &t.ProcessingSecs, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if list == nil {
		list = []Transcription{}
	}
	return list, rows.Err()
}

func (s *Store) DeleteTranscription(id string) error {
	res, err := s.db.Exec("DELETE FROM transcriptions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
