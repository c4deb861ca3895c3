package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame carries one chunk's pixel data to viewers. Data is row-major RGBA in
// simulation orientation (row 0 at the bottom); JSON encodes it as base64.
type Frame struct {
	Tick   uint64 `json:"tick"`
	ChunkX int    `json:"cx"`
	ChunkY int    `json:"cy"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Data   []byte `json:"data"`
}

// PlaceCommand is a remote brush stroke sent by a viewer.
type PlaceCommand struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Material string `json:"material"`
	Amount   int    `json:"amount"`
}

// Broadcaster fans chunk frames out to every connected WebSocket viewer and
// funnels their placement commands back to the simulation loop.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan Frame
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	commands   chan PlaceCommand
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewBroadcaster starts the fan-out goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Frame, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		commands:   make(chan PlaceCommand, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Handler upgrades an HTTP request to a WebSocket viewer connection and reads
// placement commands from it until the peer disconnects.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		select {
		case b.register <- conn:
		case <-b.done:
			conn.Close()
			return
		}
		go b.readLoop(conn)
	}
}

// Publish queues a frame for every connected viewer.
func (b *Broadcaster) Publish(ctx context.Context, f Frame) error {
	select {
	case b.broadcast <- f:
		return nil
	case <-b.done:
		return fmt.Errorf("broadcaster closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Commands exposes the placement commands received from viewers.
func (b *Broadcaster) Commands() <-chan PlaceCommand { return b.commands }

// ClientCount reports the number of connected viewers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) readLoop(conn *websocket.Conn) {
	defer func() {
		select {
		case b.unregister <- conn:
		case <-b.done:
		}
	}()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd PlaceCommand
		if err := json.Unmarshal(msg, &cmd); err != nil {
			// Malformed input from a viewer is dropped, not fatal.
			continue
		}
		select {
		case b.commands <- cmd:
		case <-b.done:
			return
		default:
			// Command queue full; shed load rather than stall the read.
		}
	}
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case frame := <-b.broadcast:
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			b.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(b.clients))
			for conn := range b.clients {
				conns = append(conns, conn)
			}
			b.mu.RUnlock()

			var toRemove []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					toRemove = append(toRemove, conn)
					conn.Close()
				}
			}
			if len(toRemove) > 0 {
				b.mu.Lock()
				for _, conn := range toRemove {
					delete(b.clients, conn)
				}
				b.mu.Unlock()
			}
		}
	}
}

// Close disconnects every viewer and stops the fan-out goroutine. Safe to
// call more than once.
func (b *Broadcaster) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.mu.Lock()
		for conn := range b.clients {
			conn.Close()
			delete(b.clients, conn)
		}
		b.mu.Unlock()
		b.wg.Wait()
	})
	return nil
}
