// Package media wraps the ffmpeg and ffprobe binaries for the audio
// operations the transcription pipeline needs: probing duration and
// splitting sources into fixed-length WAV chunks.
package media

import "time"

const defaultCommandTimeout = 10 * time.Minute

type FFmpeg struct {
	ffmpegBinary   string
	ffprobeBinary  string
	commandTimeout time.Duration
}

type Option func(*FFmpeg)

// WithBinaries overrides the ffmpeg and ffprobe binary paths.
func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(f *FFmpeg) {
		if ffmpeg != "" {
			f.ffmpegBinary = ffmpeg
		}
		if ffprobe != "" {
			f.ffprobeBinary = ffprobe
		}
	}
}

// WithCommandTimeout bounds how long a single ffmpeg or ffprobe
// invocation may run.
func WithCommandTimeout(d time.Duration) Option {
	return func(f *FFmpeg) {
		if d > 0 {
			f.commandTimeout = d
		}
	}
}

func New(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		ffmpegBinary:   "ffmpeg",
		ffprobeBinary:  "ffprobe",
		commandTimeout: defaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
