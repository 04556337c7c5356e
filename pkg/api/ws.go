package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"sqlfleet/pkg/run"
)

// subscriberBuffer is how many events a subscriber may lag before it is
// considered dead and dropped.
const subscriberBuffer = 64

// subscriber owns one websocket connection. All frame writes go through its
// writeLoop; the connection supports only one concurrent writer.
type subscriber struct {
	conn *websocket.Conn
	send chan run.Event
}

// WSHub fans scan progress events out to websocket subscribers (UI,
// dashboards). Broadcast only enqueues; slow or dead subscribers are
// dropped, never waited on.
type WSHub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
}

func NewWSHub() *WSHub {
	return &WSHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: map[*subscriber]struct{}{},
	}
}

// HandleProgress upgrades and registers a subscriber connection.
func (h *WSHub) HandleProgress(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v headers=%v", err, r.Header)
		return
	}
	s := &subscriber{conn: c, send: make(chan run.Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	log.Printf("progress subscriber connected (%d total)", h.count())
	go h.writeLoop(s)
	go h.readLoop(s)
}

// Broadcast enqueues a scan event for every subscriber. Scan workers call
// this concurrently; frame writes stay serialized in each writeLoop. A
// subscriber whose buffer is full is dropped rather than waited on.
func (h *WSHub) Broadcast(ev run.Event) {
	var slow []*subscriber
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.send <- ev:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()
	for _, s := range slow {
		h.drop(s)
	}
}

// writeLoop is the sole writer on the subscriber's connection.
func (h *WSHub) writeLoop(s *subscriber) {
	for ev := range s.send {
		if err := s.conn.WriteJSON(ev); err != nil {
			h.drop(s)
			return
		}
	}
}

func (h *WSHub) readLoop(s *subscriber) {
	defer h.drop(s)
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}

// drop unregisters a subscriber and closes its channel exactly once. The
// close happens under the same lock Broadcast's sends hold, so no send can
// race it.
func (h *WSHub) drop(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
	h.mu.Unlock()
	_ = s.conn.Close()
}

func (h *WSHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
