package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"community-resources-be/pkg/resource"
)

// ErrNotFound is returned by Load when no artifact exists for a category.
var ErrNotFound = errors.New("artifact not found")

// formatVersion is bumped whenever the encoded layout changes; artifacts of
// another version are treated as missing and rebuilt.
const formatVersion = 1

// Store persists parsed datasets so later loads skip fetching and parsing.
// Artifacts are disposable: deleting one only forces a rebuild.
type Store interface {
	Load(ctx context.Context, c resource.Category) (*resource.Dataset, error)
	Save(ctx context.Context, d *resource.Dataset) error
	Delete(ctx context.Context, c resource.Category) error
	Clear(ctx context.Context) error
}

type document struct {
	Version int               `json:"version"`
	Dataset *resource.Dataset `json:"dataset"`
}

func encode(d *resource.Dataset) ([]byte, error) {
	b, err := json.MarshalIndent(document{Version: formatVersion, Dataset: d}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode artifact %s: %w", d.Category, err)
	}
	return b, nil
}

func decode(c resource.Category, b []byte) (*resource.Dataset, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", c, err)
	}
	if doc.Version != formatVersion || doc.Dataset == nil || doc.Dataset.Category != c {
		return nil, ErrNotFound
	}
	doc.Dataset.Reindex()
	return doc.Dataset, nil
}
