package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probePacket struct {
	PTSTime      string `json:"pts_time"`
	DTSTime      string `json:"dts_time"`
	DurationTime string `json:"duration_time"`
}

type probePackets struct {
	Packets []probePacket `json:"packets"`
}

// Duration returns the audio duration in seconds. Container metadata is
// used when present. Browser MediaRecorder blobs are streamed and often
// carry no duration in the container, so we fall back to scanning packet
// timestamps.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, f.ffprobeBinary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		path,
	).Output()
	if err == nil {
		if d, perr := parseFormatDuration(out); perr == nil && d > 0 {
			return d, nil
		}
	}
	return f.packetDuration(ctx, path)
}

func (f *FFmpeg) packetDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, f.ffprobeBinary,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_packets",
		"-print_format", "json",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe packets: %w", err)
	}
	return parsePacketDuration(out)
}

func parseFormatDuration(data []byte) (float64, error) {
	var probe probeFormat
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, errors.New("no duration in format metadata")
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", probe.Format.Duration, err)
	}
	return d, nil
}

// parsePacketDuration computes duration as the largest pts+duration seen
// across packets. Packets without usable timestamps are skipped.
func parsePacketDuration(data []byte) (float64, error) {
	var probe probePackets
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("parsing ffprobe packets: %w", err)
	}

	var maxEnd float64
	found := false
	for _, p := range probe.Packets {
		ts := p.PTSTime
		if ts == "" {
			ts = p.DTSTime
		}
		t, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			continue
		}
		if d, err := strconv.ParseFloat(p.DurationTime, 64); err == nil {
			t += d
		}
		if t > maxEnd {
			maxEnd = t
		}
		found = true
	}
	if !found {
		return 0, errors.New("no packets with timestamps")
	}
	return maxEnd, nil
}
