package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SegmentWAV splits the input into fixed-length chunks named
// chunk_000.wav, chunk_001.wav, ... in outDir, re-encoded to 16kHz mono
// PCM as whisper expects. Returns the chunk paths in source order.
func (f *FFmpeg) SegmentWAV(ctx context.Context, inputPath, outDir string, segmentSeconds int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffmpegBinary,
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-y",
		filepath.Join(outDir, "chunk_%03d.wav"),
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg segment: %s: %w", string(output), err)
	}
	return listChunks(outDir)
}

// listChunks returns chunk files in source order. The %03d naming keeps
// lexicographic order equal to numeric order.
func listChunks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var chunks []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "chunk_") && strings.HasSuffix(name, ".wav") {
			chunks = append(chunks, filepath.Join(dir, name))
		}
	}
	sort.Strings(chunks)
	return chunks, nil
}
