// Package ai defines the LLM provider abstraction used for article
// summarization. Providers implement a common interface and register
// themselves in a Registry; the active provider is chosen by configuration.
package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrProviderNotFound is returned when requesting an unregistered provider.
var ErrProviderNotFound = errors.New("ai provider not found")

// SummarizeRequest carries the article text to condense.
type SummarizeRequest struct {
	// Title of the saved page, may be empty.
	Title string
	// Text is the article body to summarize.
	Text string
	// MaxSentences caps the summary length; 0 means provider default.
	MaxSentences int
}

// Provider generates summaries via an LLM backend.
type Provider interface {
	// Name returns the provider identifier ("openai", "groq").
	Name() string
	// Summarize condenses the given text into a short summary.
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
}

// Registry holds available providers keyed by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry, replacing any existing
// provider with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider with the given name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
