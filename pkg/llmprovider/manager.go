package llmprovider

import (
	"context"
	"fmt"
	"time"

	"telegram-ai-relay/pkg/log"
)

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 30 * time.Second

// Manager routes a request to exactly one named provider.
// There is no retry and no fallback: a failed call is reported to the caller as is.
type Manager struct {
	providers map[string]Provider
	timeouts  map[string]time.Duration
	logger    log.Logger
}

// Entry pairs a provider with its call timeout.
type Entry struct {
	Provider Provider
	Timeout  time.Duration
}

// NewManager creates a new Provider Manager keyed by Provider.Name().
func NewManager(entries []Entry, logger log.Logger) *Manager {
	m := &Manager{
		providers: make(map[string]Provider, len(entries)),
		timeouts:  make(map[string]time.Duration, len(entries)),
		logger:    logger,
	}
	for _, e := range entries {
		timeout := e.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		m.providers[e.Provider.Name()] = e.Provider
		m.timeouts[e.Provider.Name()] = timeout
	}
	return m
}

// Has reports whether a provider with the given name is registered.
func (m *Manager) Has(name string) bool {
	_, ok := m.providers[name]
	return ok
}

// Complete sends req to the named provider under its timeout.
// Every error returned is a *BackendError.
func (m *Manager) Complete(ctx context.Context, name string, req *Request) (*Response, error) {
	provider, ok := m.providers[name]
	if !ok {
		return nil, &BackendError{
			Provider: name,
			Kind:     KindUnknown,
			Detail:   ErrProviderNotConfigured.Error(),
			Err:      fmt.Errorf("%w: %s", ErrProviderNotConfigured, name),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeouts[name])
	defer cancel()

	start := time.Now()
	resp, err := provider.Complete(ctx, req)
	if err != nil {
		be := classify(name, err)
		m.logFailure(ctx, provider, be, time.Since(start))
		return nil, be
	}

	m.logSuccess(ctx, provider, resp, time.Since(start))
	return resp, nil
}

// logSuccess logs successful LLM generation with metrics
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response, elapsed time.Duration) {
	var in, out int
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Infof(ctx, "llmprovider.Manager.Complete: provider=%s model=%s input_tokens=%d output_tokens=%d elapsed=%s",
		provider.Name(), provider.Model(), in, out, elapsed)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err *BackendError, elapsed time.Duration) {
	m.logger.Warnf(ctx, "llmprovider.Manager.Complete: provider=%s model=%s kind=%s elapsed=%s: %v",
		provider.Name(), provider.Model(), err.Kind, elapsed, err)
}
