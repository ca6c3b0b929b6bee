package stream

import (
	"strings"
	"sync"
)

// Registry maps a recipient id to at most one live emitter. It is
// shared between request handlers and the dispatch path, so every
// implementation must be safe for concurrent use. Process-local by
// construction; fan-out across instances would need a shared
// backplane behind this interface.
type Registry interface {
	// Save registers the emitter for id, replacing any existing one.
	// The replaced emitter is not closed here; its handler notices
	// on its own teardown triggers.
	Save(id string, e *Emitter)
	Get(id string) (*Emitter, bool)
	// All returns a snapshot safe to iterate while saves and deletes
	// continue concurrently.
	All() []*Emitter
	Delete(id string)
	// CompareAndDelete removes the entry for id only while it still
	// holds e; the identity check runs under the registry lock so a
	// concurrent Save for the same id is never the one deleted.
	CompareAndDelete(id string, e *Emitter)
	// DeletePrefix removes every emitter whose stringified id starts
	// with prefix. Kept compatible with the legacy contract; note
	// that id "1" is a prefix of id "12".
	DeletePrefix(prefix string)
}

type memoryRegistry struct {
	mu       sync.RWMutex
	emitters map[string]*Emitter
}

func NewRegistry() Registry {
	return &memoryRegistry{emitters: make(map[string]*Emitter)}
}

func (r *memoryRegistry) Save(id string, e *Emitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitters[id] = e
}

func (r *memoryRegistry) Get(id string) (*Emitter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.emitters[id]
	return e, ok
}

func (r *memoryRegistry) All() []*Emitter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]*Emitter, 0, len(r.emitters))
	for _, e := range r.emitters {
		snapshot = append(snapshot, e)
	}
	return snapshot
}

func (r *memoryRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.emitters, id)
}

func (r *memoryRegistry) CompareAndDelete(id string, e *Emitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.emitters[id]; ok && current == e {
		delete(r.emitters, id)
	}
}

func (r *memoryRegistry) DeletePrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.emitters {
		if strings.HasPrefix(id, prefix) {
			delete(r.emitters, id)
		}
	}
}
