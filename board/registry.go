package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Board is the type-erased view of a Collection used by transports that
// address boards by name.
type Board interface {
	Name() string
	Load(ctx context.Context) error
	EnsureDefaults(ctx context.Context) error
	Flush(ctx context.Context) error
	Status() Status
	Stats() map[string]int

	// List returns the records, optionally filtered by discriminator value.
	List(group string) any
	// Columns returns the records bucketed by discriminator value.
	Columns() any
	Has(id string) bool
	AddJSON(ctx context.Context, data []byte) (any, bool, error)
	PatchJSON(ctx context.Context, id string, data []byte) (any, bool, error)
	Delete(ctx context.Context, id string, confirm Confirmer) (bool, error)
	GroupField() string
}

func (c *Collection[T]) GroupField() string {
	return c.spec.GroupField
}

func (c *Collection[T]) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

func (c *Collection[T]) Columns() any {
	return c.GroupBy()
}

func (c *Collection[T]) List(group string) any {
	items := c.Items()
	if group == "" || c.spec.Group == nil {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.spec.Group(it) == group {
			out = append(out, it)
		}
	}
	return out
}

// AddJSON decodes a draft record and adds it.
func (c *Collection[T]) AddJSON(ctx context.Context, data []byte) (any, bool, error) {
	var draft T
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	rec, ok := c.Add(ctx, draft)
	if !ok {
		return nil, false, nil
	}
	return rec, true, nil
}

// PatchJSON merges the JSON object in data into the record with id. Fields
// absent from data keep their current values.
func (c *Collection[T]) PatchJSON(ctx context.Context, id string, data []byte) (any, bool, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	rec, ok, err := c.update(id, func(t *T) error {
		if err := json.Unmarshal(data, t); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		return nil
	})
	if err != nil || !ok {
		return nil, ok, err
	}
	return rec, true, nil
}

// Registry indexes boards by name.
type Registry struct {
	boards map[string]Board
}

func NewRegistry(boards ...Board) *Registry {
	r := &Registry{boards: make(map[string]Board, len(boards))}
	for _, b := range boards {
		r.Register(b)
	}
	return r
}

func (r *Registry) Register(b Board) {
	r.boards[b.Name()] = b
}

func (r *Registry) Get(name string) (Board, error) {
	b, ok := r.boards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, name)
	}
	return b, nil
}

// All returns the boards sorted by name.
func (r *Registry) All() []Board {
	out := make([]Board, 0, len(r.boards))
	for _, b := range r.boards {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (r *Registry) Names() []string {
	var names []string
	for _, b := range r.All() {
		names = append(names, b.Name())
	}
	return names
}
