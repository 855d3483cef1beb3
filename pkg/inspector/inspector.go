// Package inspector is a push-telemetry server for external tooling: it
// streams frame-ready snapshots (register state plus the current frame
// buffer) over a websocket to any connected client, the same "broadcast
// binary messages to a hub of clients" shape the teacher's multiplayer
// web display uses gorilla/websocket for, generalized here to a
// read-only debug/inspection feed rather than a player-facing frontend.
//
// This package is host-side tooling, not part of the timing core: a host
// calls Push once per frame-ready callback; nothing here touches CPU,
// PPU, or bus state directly.
package inspector

import (
	"encoding/binary"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Snapshot is the register/bus state pushed alongside each frame. Fields
// are plain values, not references, so a push never races the core
// stepping past the moment it was taken.
type Snapshot struct {
	PC, SP     uint16
	AF, BC, DE uint16
	HL         uint16
	LY, LYC    uint8
	LCDC, STAT uint8
	IF, IE     uint8
}

// frameWidth/frameHeight mirror ppu.ScreenWidth/ScreenHeight without an
// import dependency on the ppu package, keeping this tooling package
// decoupled from the core's internal packages; a host passes a slice of
// exactly frameWidth*frameHeight uint16s.
const (
	frameWidth  = 160
	frameHeight = 144
)

// Server accepts websocket connections on its Handler and broadcasts
// every Push to all of them. A client that can't keep up misses pushes
// rather than slowing down the emulation loop pushing frames.
type Server struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer returns a Server with no clients connected yet.
func NewServer() *Server {
	return &Server{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024 * 64,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler upgrades incoming HTTP requests to websocket connections and
// registers them to receive broadcasts. Mount it on whatever path a host
// chooses, e.g. mux.Handle("/inspector", srv.Handler()).
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &client{conn: conn, send: make(chan []byte, 8)}

		s.mu.Lock()
		s.clients[c] = struct{}{}
		s.mu.Unlock()

		go s.writePump(c)
		go s.readPump(c)
	})
}

// readPump drains (and discards) incoming messages purely to detect a
// closed connection; the inspector feed is one-directional.
func (s *Server) readPump(c *client) {
	defer s.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	defer s.remove(c)
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

// Push broadcasts one snapshot and frame buffer to every connected
// client. frame must contain frameWidth*frameHeight samples, row-major.
// Clients with a full send buffer are skipped for this push rather than
// blocking the caller; this is telemetry, not a guaranteed-delivery
// protocol.
func (s *Server) Push(snap Snapshot, frame []uint16) {
	msg := encode(snap, frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ClientCount reports how many inspector clients are currently attached.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func encode(snap Snapshot, frame []uint16) []byte {
	const headerSize = 2*3 + 2*3 + 1*6
	buf := make([]byte, headerSize+len(frame)*2)

	binary.LittleEndian.PutUint16(buf[0:], snap.PC)
	binary.LittleEndian.PutUint16(buf[2:], snap.SP)
	binary.LittleEndian.PutUint16(buf[4:], snap.AF)
	binary.LittleEndian.PutUint16(buf[6:], snap.BC)
	binary.LittleEndian.PutUint16(buf[8:], snap.DE)
	binary.LittleEndian.PutUint16(buf[10:], snap.HL)
	buf[12] = snap.LY
	buf[13] = snap.LYC
	buf[14] = snap.LCDC
	buf[15] = snap.STAT
	buf[16] = snap.IF
	buf[17] = snap.IE

	for i, px := range frame {
		binary.LittleEndian.PutUint16(buf[headerSize+i*2:], px)
	}
	return buf
}
