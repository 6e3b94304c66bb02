package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/azure06/clipsx/internal/ipc"
	"github.com/azure06/clipsx/internal/types"
	"github.com/azure06/clipsx/pkg/format"
)

func send(command string, args map[string]any) (*ipc.Response, error) {
	resp, err := ipc.SendRequest(socketPath(), &ipc.Request{Command: command, Args: args})
	if err != nil {
		return nil, fmt.Errorf("contact clipsxd: %w (is the daemon running?)", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%s", resp.Message)
	}
	return resp, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printClips renders a clip list either as JSON or as a compact table,
// truncating long content to one terminal-friendly line.
func printClips(data any) error {
	if jsonOutput {
		return printJSON(data)
	}

	clips, ok := asClipSlice(data)
	if !ok {
		return printJSON(data)
	}
	if len(clips) == 0 {
		fmt.Println("(no clips)")
		return nil
	}
	opts := format.CompactOptions()
	opts.UseColors = !noColor
	for _, c := range clips {
		fmt.Println(format.FormatClipLine(c, opts))
	}
	return nil
}

// asClipSlice re-decodes a JSON round-tripped []*types.Clip: ipc.Response.Data
// arrives as generic interface{} after json.Decode, so we marshal/unmarshal
// it back into concrete types rather than relying on a type assertion.
func asClipSlice(data any) ([]*types.Clip, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var clips []*types.Clip
	if err := json.Unmarshal(raw, &clips); err != nil {
		return nil, false
	}
	return clips, true
}

func asClip(data any) (*types.Clip, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var clip types.Clip
	if err := json.Unmarshal(raw, &clip); err != nil || clip.ID == "" {
		return nil, false
	}
	return &clip, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
