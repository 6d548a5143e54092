package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// categoryFile mirrors the YouTube category dump shape:
// {"items": [{"id": "10", "snippet": {"title": "Music"}}, ...]}
type categoryFile struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// LoadCategoryMap reads the category dump once and returns the id -> display
// name mapping used to resolve category_id on every record.
func LoadCategoryMap(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var cf categoryFile
	if err := json.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	m := make(map[string]string, len(cf.Items))
	for _, item := range cf.Items {
		m[item.ID] = item.Snippet.Title
	}
	return m, nil
}
