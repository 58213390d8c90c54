package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Gateway loads and saves one collection as a JSON array document.
type Gateway[T any] struct {
	store DocumentStore
	name  string
}

func NewGateway[T any](store DocumentStore, name string) *Gateway[T] {
	return &Gateway[T]{store: store, name: name}
}

func (g *Gateway[T]) Name() string {
	return g.name
}

// Load reads the collection. A document that does not exist yet is an empty
// collection, not an error.
func (g *Gateway[T]) Load(ctx context.Context) ([]T, error) {
	data, err := g.store.Fetch(ctx, g.name)
	if errors.Is(err, ErrDocumentNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", g.name, err)
	}

	return decodeList[T](data)
}

// Save replaces the whole document with items.
func (g *Gateway[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", g.name, err)
	}

	if err := g.store.Replace(ctx, g.name, data); err != nil {
		return fmt.Errorf("replace %s: %w", g.name, err)
	}
	return nil
}

func decodeList[T any](data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
