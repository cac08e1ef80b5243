// Package storage manages the upload spool directory where audio files
// wait for the transcription pipeline to consume them.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var audioExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".ogg": true,
	".oga": true, ".opus": true, ".webm": true, ".flac": true,
	".aac": true, ".mp4": true,
}

// IsAudioFile reports whether the filename carries a supported audio
// extension. Browser recordings arrive as .webm or .mp4 containers
// depending on the engine.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// SaveUpload streams src into dir under a random name, keeping the
// original extension. An extensionless name is allowed; ffmpeg sniffs
// the container from content. Returns the stored path and byte count.
func SaveUpload(dir string, src io.Reader, originalName string) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != "" && !audioExtensions[ext] {
		return "", 0, fmt.Errorf("unsupported file type: %q", ext)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}

	path := filepath.Join(dir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write upload: %w", err)
	}
	return path, n, nil
}

// Sweep deletes spool files that no pending or running job references
// and that are older than minAge. The pipeline removes uploads it
// consumes; this catches files orphaned by crashes or rejected jobs.
func Sweep(dir string, active map[string]bool, minAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-minAge)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if active[path] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}
