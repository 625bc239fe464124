package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Scene   string `json:"scene"`
	JSON    string `json:"json,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Scene:   filepath.Base(r.Scene),
			Success: r.Success,
			Error:   r.Error,
		}
		if r.JSON != "" {
			entries[i].JSON = filepath.Base(r.JSON)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
