package di

import (
	"sort"
	"sync"
)

// wiring is one registry record. Strategy, target and config never change
// after registration; payload and the singleton slot are guarded by the
// owning registry's lock.
type wiring struct {
	key      string
	strategy Strategy
	value    any
	factory  Factory
	config   Declaration
	view     *ViewConstructor

	payload    []any
	configured bool
	instance   any
	cached     bool
}

type registry struct {
	mu      sync.RWMutex
	wirings map[string]*wiring
}

func newRegistry() *registry {
	return &registry{wirings: make(map[string]*wiring)}
}

// set stores w, replacing (and dropping the singleton slot of) any previous record.
func (r *registry) set(w *wiring) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wirings[w.key] = w
}

func (r *registry) get(key string) (*wiring, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wirings[key]
	return w, ok
}

func (r *registry) has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.wirings[key]
	return ok
}

func (r *registry) delete(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.wirings[key]
	delete(r.wirings, key)
	return ok
}

func (r *registry) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.wirings))
	for k := range r.wirings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *registry) configure(w *wiring, payload []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.payload = append([]any(nil), payload...)
	w.configured = true
}

func (r *registry) payloadOf(w *wiring) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]any(nil), w.payload...)
}

func (r *registry) cachedInstance(w *wiring) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return w.instance, w.cached
}

// storeInstance fills w's singleton slot unless another caller got there
// first, and returns whichever instance now occupies it. A record that was
// released or replaced meanwhile is left alone.
func (r *registry) storeInstance(w *wiring, instance any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.cached {
		return w.instance
	}
	if r.wirings[w.key] != w {
		return instance
	}
	w.instance = instance
	w.cached = true
	return instance
}

// WiringInfo describes a registered key for introspection.
type WiringInfo struct {
	Key        string   `json:"key"`
	Strategy   Strategy `json:"-"`
	Kind       string   `json:"strategy"`
	Cached     bool     `json:"cached"`
	Configured bool     `json:"configured"`
	Payload    int      `json:"payload_size"`
}

func (r *registry) info(key string) (WiringInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wirings[key]
	if !ok {
		return WiringInfo{}, false
	}
	return WiringInfo{
		Key:        w.key,
		Strategy:   w.strategy,
		Kind:       w.strategy.String(),
		Cached:     w.cached,
		Configured: w.configured,
		Payload:    len(w.payload),
	}, true
}
