package connectivity

import "sync"

// Hub tracks the last reported network state and fans changes out to
// subscribers. Whatever detects connectivity changes (a platform hook, a
// probe loop) reports them with SetOnline; consumers read Online or
// subscribe.
type Hub struct {
	mu     sync.RWMutex
	online bool
	subs   map[int]func(bool)
	nextID int
}

func NewHub() *Hub {
	// Optimistic default: assume online until told otherwise.
	return &Hub{online: true, subs: make(map[int]func(bool))}
}

func (h *Hub) Online() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online
}

// SetOnline records the new state and notifies subscribers on change.
func (h *Hub) SetOnline(online bool) {
	h.mu.Lock()
	if h.online == online {
		h.mu.Unlock()
		return
	}
	h.online = online
	listeners := make([]func(bool), 0, len(h.subs))
	for _, fn := range h.subs {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(online)
	}
}

// Subscribe registers a listener and returns a cancel function.
func (h *Hub) Subscribe(fn func(online bool)) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}
