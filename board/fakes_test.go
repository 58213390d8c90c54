package board

import (
	"context"
	"sync"
	"time"
)

type fakeStore struct {
	mu         sync.Mutex
	docs       map[string][]byte
	fetchErr   error
	replaceErr error
	replaces   int

	// when block is set, Replace signals entered and waits for block to close
	entered chan struct{}
	block   chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]byte)}
}

func (s *fakeStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	data, ok := s.docs[name]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return data, nil
}

func (s *fakeStore) Replace(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	block, entered := s.block, s.entered
	s.mu.Unlock()

	if block != nil {
		if entered != nil {
			select {
			case entered <- struct{}{}:
			default:
			}
		}
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaces++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.docs[name] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStore) set(name, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = []byte(data)
}

func (s *fakeStore) doc(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.docs[name])
}

func (s *fakeStore) replaceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaces
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memCache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), data...)
	return nil
}

type recordingObserver struct {
	mu       sync.Mutex
	changes  []string
	failures []string
}

func (o *recordingObserver) Changed(board string, items any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, board)
}

func (o *recordingObserver) Failed(board, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, message)
}

func (o *recordingObserver) failed() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.failures...)
}

// fixedClock returns the same instant on every call.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
