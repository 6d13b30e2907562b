package http

import "sync"

// subscriberBuffer is the number of undelivered messages a stream may hold
// before further messages to it are dropped.
const subscriberBuffer = 32

// Hub fans out server-sent event payloads to the streams opened for a
// session ID. Publishing never blocks: a slow stream loses messages.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a stream for sessionID.
func (h *Hub) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sessionID]
	if !ok {
		set = make(map[chan []byte]struct{})
		h.subs[sessionID] = set
	}
	set[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a stream and closes its channel.
func (h *Hub) Unsubscribe(sessionID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sessionID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.subs, sessionID)
	}
}

// Publish delivers msg to every stream of sessionID and reports how many
// streams accepted it. Messages for sessions without streams are dropped.
func (h *Hub) Publish(sessionID string, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for ch := range h.subs[sessionID] {
		select {
		case ch <- msg:
			n++
		default:
		}
	}
	return n
}

// Subscribers returns the number of streams open for sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}
