package testutil

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/mhasan/chatwave/internal/realtime"
)

// WSClient is a test client for the realtime channel
type WSClient struct {
	t      *testing.T
	conn   *gorillaWS.Conn
	events chan *realtime.Event
	errors chan error
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewWSClient connects to the realtime endpoint with the token supplied
// the way a browser would: in the "token" cookie.
func NewWSClient(t *testing.T, url, token string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	header := http.Header{}
	if token != "" {
		header.Set("Cookie", "token="+token)
	}

	conn, _, err := dialer.Dial(url, header)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:      t,
		conn:   conn,
		events: make(chan *realtime.Event, 100),
		errors: make(chan error, 10),
		done:   make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// DialWS attempts a handshake without failing the test, so rejection
// paths can be asserted on.
func DialWS(t *testing.T, url, token string) (*gorillaWS.Conn, *http.Response, error) {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	header := http.Header{}
	if token != "" {
		header.Set("Cookie", "token="+token)
	}

	return dialer.Dial(url, header)
}

func (c *WSClient) readPump() {
	defer close(c.events)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var event realtime.Event
			if err := json.Unmarshal(data, &event); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.events <- &event:
			case <-c.done:
				return
			}
		}
	}
}

// WaitForEvent blocks until an event of the given type arrives or the
// timeout elapses.
func (c *WSClient) WaitForEvent(eventType realtime.EventType, timeout time.Duration) *realtime.Event {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				c.t.Fatalf("websocket closed while waiting for %s event", eventType)
				return nil
			}
			if event.Type == eventType {
				return event
			}
		case err := <-c.errors:
			c.t.Fatalf("websocket error while waiting for %s event: %v", eventType, err)
			return nil
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s event", eventType)
			return nil
		}
	}
}

// ExpectNoEvent asserts that no event of the given type arrives within
// the window.
func (c *WSClient) ExpectNoEvent(eventType realtime.EventType, window time.Duration) {
	c.t.Helper()

	deadline := time.After(window)
	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				return
			}
			if event.Type == eventType {
				c.t.Fatalf("unexpected %s event", eventType)
			}
		case <-deadline:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	close(c.done)
	c.conn.WriteMessage(gorillaWS.CloseMessage,
		gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
	c.conn.Close()
}
