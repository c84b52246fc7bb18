package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/automaton/internal/logging"
	"github.com/go-chi/chi/v5"
)

// DesignEvent is pushed to subscribers after every accepted change of a design.
type DesignEvent struct {
	Op            string `json:"op"`
	Design        string `json:"design"`
	Subject       string `json:"subject,omitempty"`
	States        int    `json:"states"`
	Deterministic bool   `json:"deterministic"`
}

// StreamManager fans design events out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- DesignEvent]struct{} // design id -> set of channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- DesignEvent]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a channel for the design. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(designID string) (<-chan DesignEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan DesignEvent, 10)
	if _, ok := sm.subscribers[designID]; !ok {
		sm.subscribers[designID] = make(map[chan<- DesignEvent]struct{})
	}
	sm.subscribers[designID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[designID]; ok {
			if _, still := subs[ch]; !still {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, designID)
			}
		}
	}
}

// Broadcast delivers the event without blocking. Slow subscribers lose events.
func (sm *StreamManager) Broadcast(event DesignEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[event.Design] {
		select {
		case ch <- event:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping event", "design_id", event.Design, "op", event.Op)
		}
	}
}

// Subscribers reports how many connections watch the design.
func (sm *StreamManager) Subscribers(designID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[designID])
}

// SubscribeEvents handles the GET /designs/{id}/events request (SSE).
// The optional "ops" query parameter keeps only the listed operations.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	designID := chi.URLParam(r, "id")
	var ops map[string]bool
	if raw := r.URL.Query().Get("ops"); raw != "" {
		ops = make(map[string]bool)
		for _, op := range strings.Split(raw, ",") {
			ops[strings.TrimSpace(op)] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(designID)
	defer cancel()
	s.logger.Info("SSE: Subscribed to design", "design_id", designID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "design_id", designID)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ops != nil && !ops[event.Op] {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Op, data)
			flusher.Flush()
		}
	}
}
