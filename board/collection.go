package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CrowderSoup/workbench/models"
)

// Spec describes one entity type to the generic Collection.
type Spec[T any] struct {
	// Name is the board name and the stored document name (Name + ".json").
	Name     string
	CacheKey string

	ID    func(*T) *string
	Title func(T) string // required display field

	// Created and Updated point at the timestamp fields; either may be nil.
	Created func(*T) *int64
	Updated func(*T) *int64

	// GroupField names the discriminator (status, stage, ...) and Group reads it.
	GroupField  string
	Group       func(T) string
	GroupValues []string

	// Defaults seeds an empty board on first use.
	Defaults func() []T
}

func (s Spec[T]) DocumentName() string {
	return s.Name + ".json"
}

type options struct {
	log         *slog.Logger
	observer    Observer
	now         func() time.Time
	saveTimeout time.Duration
}

type Option func(*options)

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) { o.saveTimeout = d }
}

func buildOptions(opts []Option) options {
	o := options{
		log:         slog.Default(),
		observer:    nopObserver{},
		now:         time.Now,
		saveTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Status is the sync indicator of a board.
type Status struct {
	Board      string     `json:"board"`
	Count      int        `json:"count"`
	Syncing    bool       `json:"syncing"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
	Remote     bool       `json:"remote"` // last load came from the document store
}

// Collection holds the in-memory list of one board. Every mutation is applied
// to memory and the local cache at once; the remote save runs in the
// background and never rolls the local state back.
type Collection[T any] struct {
	spec     Spec[T]
	gateway  *Gateway[T]
	cache    Cache
	log      *slog.Logger
	observer Observer
	now      func() time.Time
	queue    *saveQueue[T]

	mu         sync.RWMutex
	items      []T
	lastSynced time.Time
	remote     bool
}

func New[T any](spec Spec[T], store DocumentStore, cache Cache, opts ...Option) *Collection[T] {
	o := buildOptions(opts)

	c := &Collection[T]{
		spec:     spec,
		gateway:  NewGateway[T](store, spec.DocumentName()),
		cache:    cache,
		log:      o.log.With("board", spec.Name),
		observer: o.observer,
		now:      o.now,
		items:    []T{},
	}
	c.queue = newSaveQueue(o.saveTimeout, c.gateway.Save, c.saved)
	return c
}

func (c *Collection[T]) Name() string {
	return c.spec.Name
}

func (c *Collection[T]) Spec() Spec[T] {
	return c.spec
}

// Load replaces the in-memory list with the stored collection. When the store
// fails the last cached collection is used instead and the failure is
// reported to the observer; the returned error is informational only.
func (c *Collection[T]) Load(ctx context.Context) error {
	items, err := c.gateway.Load(ctx)
	if err == nil {
		c.mu.Lock()
		c.items = items
		c.lastSynced = c.now()
		c.remote = true
		c.mu.Unlock()

		c.log.Debug("board loaded", "count", len(items))
		return nil
	}

	c.log.Warn("load failed, using local data", "error", err)

	cached := c.readCache()
	c.mu.Lock()
	c.items = cached
	c.remote = false
	c.mu.Unlock()

	c.observer.Failed(c.spec.Name, fmt.Sprintf("%s: load failed, using local data: %v", c.spec.Name, err))
	return err
}

// EnsureDefaults seeds the board with its default records when the last
// successful load found it empty. It does nothing after a failed load, so a
// transient outage never overwrites the remote document with defaults.
func (c *Collection[T]) EnsureDefaults(ctx context.Context) error {
	if c.spec.Defaults == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.remote || len(c.items) > 0 {
		return nil
	}

	c.log.Info("seeding default records")
	c.persistLocked(c.spec.Defaults())
	return nil
}

// Items returns a copy of the collection in display order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Get returns the record with id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Add prepends draft with a fresh id and timestamps. A draft with a blank
// title is dropped and false is returned.
func (c *Collection[T]) Add(ctx context.Context, draft T) (T, bool) {
	if strings.TrimSpace(c.spec.Title(draft)) == "" {
		var zero T
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	*c.spec.ID(&draft) = c.nextIDLocked(now)
	stamp(c.spec.Created, &draft, now)
	stamp(c.spec.Updated, &draft, now)

	next := make([]T, 0, len(c.items)+1)
	next = append(next, draft)
	next = append(next, c.items...)
	c.persistLocked(next)

	return draft, true
}

// Update applies patch to the record with id. Unknown ids and patches that
// blank the title leave the collection untouched and report false.
func (c *Collection[T]) Update(ctx context.Context, id string, patch func(*T)) (T, bool) {
	rec, ok, _ := c.update(id, func(t *T) error {
		patch(t)
		return nil
	})
	return rec, ok
}

func (c *Collection[T]) update(id string, patch func(*T) error) (T, bool, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return zero, false, nil
	}

	// patch a deep copy so slices shared with the stored record and earlier
	// snapshots are never written through
	rec, err := clone(c.items[i])
	if err != nil {
		return zero, false, err
	}
	if err := patch(&rec); err != nil {
		return zero, false, err
	}

	// identity and creation time are never reassigned
	*c.spec.ID(&rec) = id
	if c.spec.Created != nil {
		*c.spec.Created(&rec) = *c.spec.Created(&c.items[i])
	}
	if strings.TrimSpace(c.spec.Title(rec)) == "" {
		return zero, false, nil
	}
	stamp(c.spec.Updated, &rec, c.now())

	next := slices.Clone(c.items)
	next[i] = rec
	c.persistLocked(next)

	return rec, true, nil
}

// Delete removes the record with id once confirm approves it. It returns
// ErrConfirmationRequired when the confirmation is declined.
func (c *Collection[T]) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	rec, ok := c.Get(id)
	if !ok {
		return false, nil
	}

	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete %q from %s?", c.spec.Title(rec), c.spec.Name)) {
		return false, ErrConfirmationRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false, nil
	}

	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	c.persistLocked(next)

	return true, nil
}

// Flush waits until every queued save has finished.
func (c *Collection[T]) Flush(ctx context.Context) error {
	return c.queue.wait(ctx)
}

func (c *Collection[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Status{
		Board:   c.spec.Name,
		Count:   len(c.items),
		Syncing: c.queue.busy(),
		Remote:  c.remote,
	}
	if !c.lastSynced.IsZero() {
		t := c.lastSynced
		st.LastSynced = &t
	}
	return st
}

// Stats counts records per discriminator value plus a "total" entry.
func (c *Collection[T]) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[string]int{"total": len(c.items)}
	if c.spec.Group == nil {
		return out
	}
	for _, v := range c.spec.GroupValues {
		out[v] = 0
	}
	for k, n := range models.CountBy(c.items, c.spec.Group) {
		out[k] = n
	}
	return out
}

// GroupBy buckets the records by discriminator value.
func (c *Collection[T]) GroupBy() map[string][]T {
	items := c.Items()

	out := make(map[string][]T)
	for _, v := range c.spec.GroupValues {
		out[v] = []T{}
	}
	if c.spec.Group == nil {
		return out
	}
	for _, it := range items {
		k := c.spec.Group(it)
		out[k] = append(out[k], it)
	}
	return out
}

// persistLocked is the single write path: memory, then cache, then the
// background save.
func (c *Collection[T]) persistLocked(next []T) {
	c.items = next

	snapshot := slices.Clone(next)
	if data, err := json.Marshal(snapshot); err != nil {
		c.log.Error("encode local cache", "error", err)
	} else if err := c.cache.Set(c.spec.CacheKey, data); err != nil {
		c.log.Error("write local cache", "error", err)
	}

	c.observer.Changed(c.spec.Name, snapshot)
	c.queue.enqueue(snapshot)
}

func (c *Collection[T]) saved(err error) {
	if err != nil {
		c.log.Warn("save failed", "error", err)
		c.observer.Failed(c.spec.Name, fmt.Sprintf("%s: save failed: %v", c.spec.Name, err))
		return
	}

	c.mu.Lock()
	c.lastSynced = c.now()
	c.mu.Unlock()
	c.log.Debug("board saved")
}

func (c *Collection[T]) readCache() []T {
	data, ok, err := c.cache.Get(c.spec.CacheKey)
	if err != nil {
		c.log.Error("read local cache", "error", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	items, err := decodeList[T](data)
	if err != nil {
		c.log.Error("decode local cache", "error", err)
		return []T{}
	}
	return items
}

func (c *Collection[T]) indexLocked(id string) int {
	for i := range c.items {
		if *c.spec.ID(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

// nextIDLocked derives the id from the creation time, bumped past any id
// already in use.
func (c *Collection[T]) nextIDLocked(now time.Time) string {
	used := make(map[string]struct{}, len(c.items))
	for i := range c.items {
		used[*c.spec.ID(&c.items[i])] = struct{}{}
	}

	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, taken := used[id]; !taken {
			return id
		}
		ms++
	}
}

func clone[T any](rec T) (T, error) {
	var out T
	data, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("copy record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("copy record: %w", err)
	}
	return out, nil
}

func stamp[T any](field func(*T) *int64, rec *T, now time.Time) {
	if field != nil {
		*field(rec) = now.UnixMilli()
	}
}
