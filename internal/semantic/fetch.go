package semantic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// modelFetcher downloads a model's ONNX export and tokenizer config from
// the Hugging Face hub into the local cache directory on first use.
type modelFetcher struct {
	baseURL string
	client  *http.Client
}

func newModelFetcher() *modelFetcher {
	return &modelFetcher{
		baseURL: "https://huggingface.co",
		client:  http.DefaultClient,
	}
}

func (f *modelFetcher) Fetch(ctx context.Context, repo, destDir, modelFileName string) error {
	files := map[string]string{
		modelFileName:    "onnx/model.onnx",
		"tokenizer.json": "tokenizer.json",
	}
	for localName, remotePath := range files {
		url := fmt.Sprintf("%s/sentence-transformers/%s/resolve/main/%s", f.baseURL, repo, remotePath)
		if err := f.fetchOne(ctx, url, filepath.Join(destDir, localName)); err != nil {
			return err
		}
	}
	return nil
}

func (f *modelFetcher) fetchOne(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, dest)
}
