package service

import (
	"codeflex/fitness-api/internal/auth"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

const testBcryptCost = 4

func newTestIssuer(t *testing.T) *auth.SessionIssuer {
	t.Helper()
	return auth.NewSessionIssuer("service-test-secret", 10*24*time.Hour, nil)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// stubGenerator returns a canned completion.
type stubGenerator struct {
	text    string
	err     error
	prompts []string
	delay   time.Duration
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

// fakeFiles is an in-memory FileStorage.
type fakeFiles struct {
	deleted   []string
	deleteErr error
}

func (f *fakeFiles) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://files.test/upload/" + key + "?ct=" + contentType, nil
}

func (f *fakeFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	return "https://files.test/download/" + key, nil
}

func (f *fakeFiles) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}
