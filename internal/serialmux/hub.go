package serialmux

import "sync"

// hub is the subscriber set shared by the mux implementations. Once closed,
// new subscribers receive an already closed channel so readers never block
// on a mux that is shutting down.
type hub struct {
	mu     sync.Mutex
	subs   map[string]chan string
	closed bool
}

func (h *hub) add(buffer int) (string, chan string) {
	id, ch := randomID(), make(chan string, buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return id, ch
	}
	if h.subs == nil {
		h.subs = make(map[string]chan string)
	}
	h.subs[id] = ch
	return id, ch
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// send hands line to every subscriber that is ready for it. Lines for busy
// subscribers are dropped so a slow reader never stalls the port.
func (h *hub) send(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- line:
		default:
		}
	}
}

// close closes every subscriber. It reports false if the hub was already
// closed.
func (h *hub) close() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	return true
}

func (h *hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
