// Package pipeline turns an uploaded audio file into a stored
// transcription: probe the duration, split into fixed-length chunks,
// transcribe the chunks in parallel, join the fragments as they
// complete, then optionally run an LLM correction pass over the result.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/correct"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/job"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
)

const (
	// NoTranscriptionText is stored as the corrected text when the audio
	// produced no words at all.
	NoTranscriptionText = "No transcription available."

	defaultSegmentSeconds = 60
	defaultPoolSize       = 4
)

var ErrAudioTooLong = errors.New("audio exceeds maximum duration")

// MediaProcessor is the subset of media.FFmpeg the pipeline needs.
type MediaProcessor interface {
	Duration(ctx context.Context, path string) (float64, error)
	SegmentWAV(ctx context.Context, inputPath, outDir string, segmentSeconds int) ([]string, error)
}

type Options struct {
	SegmentSeconds  int
	PoolSize        int
	MaxDurationSecs float64
	DefaultLanguage string
}

type Pipeline struct {
	media     MediaProcessor
	engines   *asr.Registry
	corrector correct.Corrector
	store     *store.Store
	log       *zap.Logger
	opts      Options
}

func New(media MediaProcessor, engines *asr.Registry, corrector correct.Corrector, st *store.Store, log *zap.Logger, opts Options) *Pipeline {
	if opts.SegmentSeconds <= 0 {
		opts.SegmentSeconds = defaultSegmentSeconds
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	return &Pipeline{
		media:     media,
		engines:   engines,
		corrector: corrector,
		store:     st,
		log:       log.Named("pipeline"),
		opts:      opts,
	}
}

// HandleJob processes one transcription job. Intermediate chunks are
// always deleted. The uploaded source file is consumed on success and on
// rejections that a retry cannot fix; it is kept when transcription or
// correction fails so the job can be retried, and the startup sweep
// reclaims it eventually.
func (p *Pipeline) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.TranscribeParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}
	if params.Language == "" {
		params.Language = p.opts.DefaultLanguage
	}

	engine, err := p.engines.Get(params.Engine)
	if err != nil {
		return err
	}

	if _, err := os.Stat(j.FilePath); err != nil {
		return fmt.Errorf("source file: %w", err)
	}
	keepSource := false
	defer func() {
		if !keepSource {
			os.Remove(j.FilePath)
		}
	}()

	start := time.Now()

	duration, err := p.media.Duration(ctx, j.FilePath)
	if err != nil {
		return fmt.Errorf("probe duration: %w", err)
	}
	if p.opts.MaxDurationSecs > 0 && duration > p.opts.MaxDurationSecs {
		return fmt.Errorf("%w: %.0fs > %.0fs", ErrAudioTooLong, duration, p.opts.MaxDurationSecs)
	}
	updateProgress(0.05)

	chunkDir, err := os.MkdirTemp("", "stt-chunks-*")
	if err != nil {
		return fmt.Errorf("create chunk dir: %w", err)
	}
	defer os.RemoveAll(chunkDir)

	chunks, err := p.media.SegmentWAV(ctx, j.FilePath, chunkDir, p.opts.SegmentSeconds)
	if err != nil {
		return fmt.Errorf("segment audio: %w", err)
	}
	if len(chunks) == 0 {
		return errors.New("no audio chunks generated")
	}
	updateProgress(0.10)

	p.log.Info("transcribing",
		zap.String("job_id", j.ID),
		zap.String("engine", engine.Name()),
		zap.Int("chunks", len(chunks)),
		zap.Float64("duration_secs", duration),
	)

	// Failures past this point are typically transient (engine or LLM
	// unreachable); keep the source so a retry has something to chew on.
	keepSource = true

	segments, model, err := p.transcribeChunks(ctx, engine, chunks, params.Language, updateProgress)
	if err != nil {
		return err
	}

	raw := joinFragments(segments)

	corrected := ""
	correctionModel := ""
	if params.Correct {
		corrected, correctionModel, err = p.runCorrection(ctx, raw, params.Style)
		if err != nil {
			return err
		}
	}

	rec := &store.Transcription{
		ID:              uuid.New().String(),
		SourceName:      params.SourceName,
		Engine:          engine.Name(),
		Model:           model,
		Language:        params.Language,
		DurationSecs:    duration,
		SegmentCount:    len(chunks),
		RawText:         raw,
		CorrectedText:   corrected,
		CorrectionModel: correctionModel,
		ProcessingSecs:  time.Since(start).Seconds(),
	}
	if err := p.store.SaveTranscription(rec); err != nil {
		return fmt.Errorf("save transcription: %w", err)
	}

	result, err := json.Marshal(job.TranscribeResult{
		TranscriptionID: rec.ID,
		RawText:         raw,
		CorrectedText:   corrected,
		Segments:        segments,
		DurationSecs:    duration,
		ProcessingSecs:  rec.ProcessingSecs,
		Engine:          rec.Engine,
		Model:           model,
		CorrectionModel: correctionModel,
	})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	j.Result = result
	keepSource = false

	p.log.Info("transcription complete",
		zap.String("job_id", j.ID),
		zap.String("transcription_id", rec.ID),
		zap.Float64("processing_secs", rec.ProcessingSecs),
	)

	updateProgress(1.0)
	return nil
}

// transcribeChunks fans chunks out to the engine, at most PoolSize in
// flight. Fragments are appended in the order they complete, not source
// order. The first engine error cancels the remaining chunks.
func (p *Pipeline) transcribeChunks(ctx context.Context, engine asr.Engine, chunks []string, language string, updateProgress func(float64)) ([]job.SegmentText, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		segments  []job.SegmentText
		model     string
		firstErr  error
		errOnce   sync.Once
		completed atomic.Int32
		wg        sync.WaitGroup
	)
	sem := make(chan struct{}, p.opts.PoolSize)
	total := len(chunks)

	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			// chunks are single-use, drop each as soon as it has been read
			defer os.Remove(path)

			if ctx.Err() != nil {
				return
			}

			res, err := engine.Transcribe(ctx, asr.Request{Path: path, Language: language})
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("chunk %d: %w", idx, err)
					cancel()
				})
				return
			}

			mu.Lock()
			segments = append(segments, job.SegmentText{Index: idx, Text: strings.TrimSpace(res.Text)})
			if model == "" {
				model = res.Model
			}
			mu.Unlock()

			done := completed.Add(1)
			updateProgress(0.10 + 0.80*float64(done)/float64(total))
		}(i, chunk)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, "", firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return segments, model, nil
}

// joinFragments joins fragment texts with single spaces, in completion
// order, skipping chunks that produced no words.
func joinFragments(segments []job.SegmentText) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Pipeline) runCorrection(ctx context.Context, raw, style string) (text, model string, err error) {
	if strings.TrimSpace(raw) == "" {
		return NoTranscriptionText, "", nil
	}
	if p.corrector == nil {
		p.log.Warn("correction requested but no corrector configured")
		return "", "", nil
	}
	res, err := p.corrector.Correct(ctx, correct.Request{Text: raw, Style: style})
	if err != nil {
		return "", "", fmt.Errorf("correct transcript: %w", err)
	}
	return res.Text, res.Model, nil
}
