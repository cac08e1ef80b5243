// Package asr provides speech-to-text engines behind a common
// interface. Engines transcribe one audio file at a time; the pipeline
// fans chunks out across them.
package asr

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Request is the input for a single transcription call.
type Request struct {
	Path     string // absolute path to a WAV/MP3/... file
	Language string // "auto" or a language code like "en"
}

// Result is the transcribed text for one file.
type Result struct {
	Text  string
	Model string // model identifier the engine used
}

// Engine is the common interface for all transcription engines.
type Engine interface {
	// Transcribe converts one audio file to text.
	Transcribe(ctx context.Context, req Request) (*Result, error)
	// Name returns the engine identifier used in job params.
	Name() string
	// Info describes the engine for UI listings.
	Info() Info
}

// Info describes an engine to API clients.
type Info struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Type  string `json:"type"` // "local" or "hosted"
	Model string `json:"model,omitempty"`
}

// Registry holds the configured engines in registration order.
type Registry struct {
	log     *zap.Logger
	mu      sync.RWMutex
	engines map[string]Engine
	order   []string
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		log:     log.Named("asr"),
		engines: make(map[string]Engine),
	}
}

func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.engines[e.Name()]; !exists {
		r.order = append(r.order, e.Name())
	}
	r.engines[e.Name()] = e
	r.log.Info("registered engine", zap.String("engine", e.Name()))
}

func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s (available: %v)", name, r.names())
	}
	return e, nil
}

// Default returns the first registered engine name, or "" when none are
// configured.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

func (r *Registry) Available() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.engines[name].Info())
	}
	return infos
}

// names is called with the lock held.
func (r *Registry) names() []string {
	names := make([]string, 0, len(r.order))
	names = append(names, r.order...)
	return names
}
