package asr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CLIEngine shells out to the openai-whisper command line tool. Slowest
// option, but works offline with nothing but `pip install openai-whisper`.
type CLIEngine struct {
	binary string
	model  string
}

func NewCLIEngine(binary, model string) *CLIEngine {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = "small"
	}
	return &CLIEngine{binary: binary, model: model}
}

func (c *CLIEngine) Name() string {
	return "whisper-cli"
}

func (c *CLIEngine) Info() Info {
	return Info{Value: c.Name(), Label: "Whisper CLI (local)", Type: "local", Model: c.model}
}

// Transcribe runs the whisper CLI and reads back the .txt transcript it
// writes next to its other output formats.
func (c *CLIEngine) Transcribe(ctx context.Context, req Request) (*Result, error) {
	outDir, err := os.MkdirTemp("", "whisper-cli-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)

	args := []string{req.Path, "--model", c.model, "--output_dir", outDir, "--output_format", "txt"}
	if req.Language != "" && req.Language != "auto" {
		args = append(args, "--language", req.Language)
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper cli: %s: %w", string(output), err)
	}

	base := strings.TrimSuffix(filepath.Base(req.Path), filepath.Ext(req.Path))
	text, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return &Result{Text: strings.TrimSpace(string(text)), Model: c.model}, nil
}
