package api

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is one sequencer notification as sent on the /events stream.
type Event struct {
	Type       string `json:"type"`
	Step       int    `json:"step"`
	Pattern    int    `json:"pattern"`
	Track      int    `json:"track"`
	Instrument string `json:"instrument,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Hub fans sequencer notifications out to stream subscribers. A subscriber
// that falls behind misses events rather than stalling the sequencer.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Subscribe() chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 64)
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		close(ch)
	}
	h.subs = make(map[chan Event]struct{})
	h.closed = true
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) StepChanged(step int) {
	h.broadcast(Event{Type: "step", Step: step})
}

func (h *Hub) PatternChanged(pattern int) {
	h.broadcast(Event{Type: "pattern", Pattern: pattern})
}

func (h *Hub) InstrumentChanged(track int, instrument, displayName string) {
	h.broadcast(Event{Type: "instrument", Track: track, Instrument: instrument, Name: displayName})
}

// streamEvents godoc
// @Summary Server-sent sequencer events
// @Description Streams step, pattern and instrument notifications.
// @Tags state
// @Produce text/event-stream
// @Router /events [get]
func (s *Server) streamEvents(c *gin.Context) {
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
