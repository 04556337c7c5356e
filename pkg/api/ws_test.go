package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sqlfleet/pkg/run"
)

func dialHub(t *testing.T, hub *WSHub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleProgress))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	for i := 0; i < 100 && hub.count() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.count() == 0 {
		t.Fatal("subscriber never registered")
	}
	return conn
}

// Scan workers broadcast from many goroutines at once; every frame must
// still arrive intact at the subscriber.
func TestBroadcastConcurrentWriters(t *testing.T) {
	hub := NewWSHub()
	conn := dialHub(t, hub)

	const writers, perWriter = 8, 4
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.Broadcast(run.Event{Type: run.EventInstanceDone, Target: "db01"})
			}
		}()
	}
	wg.Wait()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < writers*perWriter; i++ {
		var ev run.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event %d failed: %v", i, err)
		}
		if ev.Type != run.EventInstanceDone || ev.Target != "db01" {
			t.Fatalf("event %d corrupted: %+v", i, ev)
		}
	}
}

func TestBroadcastDropsClosedSubscriber(t *testing.T) {
	hub := NewWSHub()
	conn := dialHub(t, hub)

	_ = conn.Close()
	for i := 0; i < 100 && hub.count() > 0; i++ {
		hub.Broadcast(run.Event{Type: run.EventRunDone})
		time.Sleep(10 * time.Millisecond)
	}
	if n := hub.count(); n != 0 {
		t.Fatalf("closed subscriber still registered (%d)", n)
	}
	// broadcasting with no subscribers must be a no-op
	hub.Broadcast(run.Event{Type: run.EventRunDone})
}
