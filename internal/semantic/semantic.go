// Package semantic owns the single process-wide text-embedding model (spec
// §4.F, §9 "global model singleton"): loading/unloading an ONNX
// sentence-embedding network on demand, embedding strings off the
// scheduling loop, and the little-endian vector codec used to persist
// embeddings.
package semantic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/daulet/tokenizers"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// ProgressEvent mirrors the download-progress{model, downloaded, total}
// event in spec §6, emitted every 200ms while a model is being fetched.
type ProgressEvent struct {
	Model      string
	Downloaded int64
	Total      int64
}

// modelSpec describes one of the closed set of model identifiers the engine
// accepts, per spec §4.F.
type modelSpec struct {
	dimensions  int
	fileName    string
	approxBytes int64
}

var knownModels = map[string]modelSpec{
	"all-MiniLM-L6-v2": {
		dimensions:  384,
		fileName:    "all-MiniLM-L6-v2.onnx",
		approxBytes: 23 * 1024 * 1024,
	},
	"paraphrase-multilingual-MiniLM-L12-v2": {
		dimensions:  384,
		fileName:    "paraphrase-multilingual-MiniLM-L12-v2.onnx",
		approxBytes: 470 * 1024 * 1024,
	},
}

const defaultModel = "all-MiniLM-L6-v2"

// ModelInfo is the public, read-only description of the loaded model.
type ModelInfo struct {
	Name       string
	Dimensions int
}

// Engine owns at most one loaded model at a time.
type Engine struct {
	cacheDir string
	logger   *zap.Logger
	progress chan ProgressEvent

	mu      sync.RWMutex
	session *ort.DynamicAdvancedSession
	tok     *tokenizers.Tokenizer
	info    *ModelInfo
}

// onnxInitOnce guards ort.InitializeEnvironment, which the onnxruntime_go
// binding requires exactly once per process before any tensor or session
// call.
var (
	onnxInitOnce sync.Once
	onnxInitErr  error
)

func initONNXRuntime() error {
	onnxInitOnce.Do(func() {
		onnxInitErr = ort.InitializeEnvironment()
	})
	return onnxInitErr
}

// NewEngine creates an engine rooted at <data root>/.fastembed_cache/.
func NewEngine(cacheDir string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cacheDir: cacheDir,
		logger:   logger,
		progress: make(chan ProgressEvent, 16),
	}
}

// Progress is the channel the daemon forwards as download-progress events
// to command-surface subscribers.
func (e *Engine) Progress() <-chan ProgressEvent { return e.progress }

func resolveModelName(name string) string {
	if _, ok := knownModels[name]; ok {
		return name
	}
	return defaultModel
}

// InitModel blocks until the model is loaded, downloading it into the cache
// directory first if necessary. Callers must run this off the capture
// loop's goroutine (spec §5).
func (e *Engine) InitModel(ctx context.Context, name string) error {
	if err := initONNXRuntime(); err != nil {
		return fmt.Errorf("semantic: initialize onnxruntime: %w", err)
	}

	name = resolveModelName(name)
	spec := knownModels[name]

	modelDir := filepath.Join(e.cacheDir, name)
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("semantic: create cache dir: %w", err)
	}
	modelPath := filepath.Join(modelDir, spec.fileName)
	tokPath := filepath.Join(modelDir, "tokenizer.json")

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := e.download(ctx, name, modelDir, spec); err != nil {
			return fmt.Errorf("semantic: download model %s: %w", name, err)
		}
	}

	tok, err := tokenizers.FromFile(tokPath)
	if err != nil {
		return fmt.Errorf("semantic: load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil)
	if err != nil {
		tok.Close()
		return fmt.Errorf("semantic: load onnx session: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
	e.tok = tok
	e.session = session
	e.info = &ModelInfo{Name: name, Dimensions: spec.dimensions}
	return nil
}

// download fetches the model's backing files and emits progress events by
// polling the destination directory's size every 200ms, per spec §4.F.
func (e *Engine) download(ctx context.Context, name, destDir string, spec modelSpec) error {
	done := make(chan struct{})
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				size := dirSize(destDir)
				select {
				case e.progress <- ProgressEvent{Model: name, Downloaded: size, Total: spec.approxBytes}:
				default:
				}
			}
		}
	}()
	defer close(done)

	fetcher := newModelFetcher()
	if err := fetcher.Fetch(ctx, name, destDir, spec.fileName); err != nil {
		return err
	}
	return nil
}

func dirSize(dir string) int64 {
	var total int64
	filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}

// UnloadModel drops the loaded model to release RAM.
func (e *Engine) UnloadModel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
}

func (e *Engine) unloadLocked() {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.tok != nil {
		e.tok.Close()
		e.tok = nil
	}
	e.info = nil
}

// IsReady reports whether a model is currently loaded.
func (e *Engine) IsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info != nil
}

// GetModelInfo returns the loaded model's name and dimensionality.
func (e *Engine) GetModelInfo() (*ModelInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.info == nil {
		return nil, false
	}
	info := *e.info
	return &info, true
}

// Embed produces a fixed-dimensional vector for text. Must be called off
// the capture loop's goroutine (spec §5): the read lock is held only for
// the duration of the blocking inference call.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.info == nil || e.tok == nil || e.session == nil {
		return nil, fmt.Errorf("semantic: %w", ErrModelNotLoaded)
	}

	ids, _ := e.tok.Encode(text, true)
	if len(ids) == 0 {
		return nil, fmt.Errorf("semantic: tokenizer produced no tokens")
	}

	vec, err := runMeanPooledInference(e.session, ids, e.info.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("semantic: inference: %w", err)
	}
	return vec, nil
}

// GetDownloadedModels lists model directories present in the cache.
func (e *Engine) GetDownloadedModels() ([]string, error) {
	entries, err := os.ReadDir(e.cacheDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("semantic: list cache dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			if _, known := knownModels[entry.Name()]; known {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// DeleteModel removes a model's cache directory. Unloads it first if it is
// the currently loaded model.
func (e *Engine) DeleteModel(name string) error {
	e.mu.Lock()
	if e.info != nil && e.info.Name == name {
		e.unloadLocked()
	}
	e.mu.Unlock()

	dir := filepath.Join(e.cacheDir, name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("semantic: delete model %s: %w", name, err)
	}
	return nil
}
