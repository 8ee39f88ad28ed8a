package frxai

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// setupTestCore creates a Core backed by a temporary database. Retries never
// sleep. The caller should defer cleanup().
func setupTestCore(t *testing.T, opts Options) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "frxai-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	opts.DBPath = filepath.Join(tmpDir, "test.db")
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}
	if retry.Sleep == nil {
		retry.Sleep = func(context.Context, time.Duration) error { return nil }
	}
	opts.Retry = &retry
	core, err := OpenWithOptions(opts)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}
	return core, cleanup
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type scriptStep struct {
	resp GenerateResponse
	err  error
}

// scriptedGenerator replays steps in order, repeating the last one.
type scriptedGenerator struct {
	mu    sync.Mutex
	steps []scriptStep
	calls []GenerateRequest
}

func newScriptedGenerator(steps ...scriptStep) *scriptedGenerator {
	return &scriptedGenerator{steps: steps}
}

func (g *scriptedGenerator) Generate(_ context.Context, req GenerateRequest) (GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	idx := len(g.calls) - 1
	if idx >= len(g.steps) {
		idx = len(g.steps) - 1
	}
	step := g.steps[idx]
	return step.resp, step.err
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func textStep(text string) scriptStep {
	return scriptStep{resp: GenerateResponse{Text: text, Model: "test-model"}}
}

func errStep(err error) scriptStep {
	return scriptStep{err: err}
}

// pngBytes returns a minimal payload that sniffs as image/png.
func pngBytes(size int) []byte {
	header := []byte("\x89PNG\r\n\x1a\n")
	if size < len(header) {
		size = len(header)
	}
	data := make([]byte, size)
	copy(data, header)
	return data
}
