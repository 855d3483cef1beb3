package inspector

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPushDeliversToConnectedClient(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + ts.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	frame := make([]uint16, frameWidth*frameHeight)
	srv.Push(Snapshot{PC: 0x0100, SP: 0xFFFE}, frame)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if len(msg) != 18+len(frame)*2 {
		t.Errorf("message length = %d, want %d", len(msg), 18+len(frame)*2)
	}
	if msg[0] != 0x00 || msg[1] != 0x01 {
		t.Errorf("PC not encoded little-endian at offset 0: %x %x", msg[0], msg[1])
	}
}
