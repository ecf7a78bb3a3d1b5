package protocol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DipeshRajoria007/co-sketch/domain"
)

type mockConn struct {
	id string
}

func (m *mockConn) ID() string             { return m.id }
func (m *mockConn) Send(data []byte) error { return nil }
func (m *mockConn) Close() error           { return nil }

type relayCall struct {
	op     string
	roomID string
	user   domain.UserPresence
	line   domain.Stroke
	state  domain.CursorState
}

type mockRelay struct {
	mu    sync.Mutex
	calls []relayCall
}

func (m *mockRelay) record(c relayCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *mockRelay) Register(conn domain.Connection) {}
func (m *mockRelay) Join(conn domain.Connection, roomID string, user domain.UserPresence) {
	m.record(relayCall{op: "join", roomID: roomID, user: user})
}
func (m *mockRelay) Stroke(conn domain.Connection, roomID string, line domain.Stroke) {
	m.record(relayCall{op: "stroke", roomID: roomID, line: line})
}
func (m *mockRelay) Clear(conn domain.Connection, roomID string) {
	m.record(relayCall{op: "clear", roomID: roomID})
}
func (m *mockRelay) CursorMove(conn domain.Connection, roomID string, state domain.CursorState) {
	m.record(relayCall{op: "cursor-move", roomID: roomID, state: state})
}
func (m *mockRelay) CursorHide(conn domain.Connection, roomID string) {
	m.record(relayCall{op: "cursor-hide", roomID: roomID})
}
func (m *mockRelay) Disconnect(conn domain.Connection) {
	m.record(relayCall{op: "disconnect"})
}
func (m *mockRelay) Stats() (int, int) { return 0, 0 }

func (m *mockRelay) getCalls() []relayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestHandler_Join(t *testing.T) {
	relay := &mockRelay{}
	handler := NewHandler(relay)
	conn := &mockConn{id: "client1"}

	frame := []byte(`{"type":"join","payload":{"roomId":"abc","user":{"name":"Alice","initials":"AL"}}}`)
	handler.Handle(conn, frame)

	calls := relay.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "join", calls[0].op)
	assert.Equal(t, "abc", calls[0].roomID)
	assert.Equal(t, "Alice", calls[0].user.Name)
	assert.Equal(t, "AL", calls[0].user.Initials)
}

func TestHandler_Stroke(t *testing.T) {
	relay := &mockRelay{}
	handler := NewHandler(relay)
	conn := &mockConn{id: "client1"}

	frame := []byte(`{"type":"stroke","payload":{"roomId":"abc","line":{"points":[{"x":0,"y":0},{"x":10,"y":10}],"tool":"pencil","color":"#FFFFFF","width":3}}}`)
	handler.Handle(conn, frame)

	calls := relay.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "stroke", calls[0].op)
	assert.Equal(t, domain.ToolPencil, calls[0].line.Tool)
	assert.Equal(t, 10.0, calls[0].line.Points[1].X)
	assert.Equal(t, 3.0, calls[0].line.Width)
}

func TestHandler_CursorMove(t *testing.T) {
	relay := &mockRelay{}
	handler := NewHandler(relay)
	conn := &mockConn{id: "client1"}

	frame := []byte(`{"type":"cursor-move","payload":{"roomId":"abc","cursor":{"x":5,"y":5},"tool":"eraser","isDrawing":true,"color":"#111111","size":10}}`)
	handler.Handle(conn, frame)

	calls := relay.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "cursor-move", calls[0].op)
	require.NotNil(t, calls[0].state.Cursor)
	assert.Equal(t, 5.0, calls[0].state.Cursor.Y)
	assert.Equal(t, domain.ToolEraser, calls[0].state.Tool)
	assert.True(t, calls[0].state.IsDrawing)
	assert.Equal(t, 10.0, calls[0].state.Size)
}

func TestHandler_Drops(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{name: "not json", frame: `not json`},
		{name: "unknown type", frame: `{"type":"teleport","payload":{}}`},
		{name: "join without room", frame: `{"type":"join","payload":{"user":{"name":"A"}}}`},
		{name: "stroke without line", frame: `{"type":"stroke","payload":{"roomId":"abc"}}`},
		{name: "stroke with unknown tool", frame: `{"type":"stroke","payload":{"roomId":"abc","line":{"points":[{"x":0,"y":0},{"x":1,"y":1}],"tool":"chainsaw","color":"#000","width":1}}}`},
		{name: "stroke with wrong types", frame: `{"type":"stroke","payload":{"roomId":"abc","line":{"points":"nope"}}}`},
		{name: "stroke with one point", frame: `{"type":"stroke","payload":{"roomId":"abc","line":{"points":[{"x":7,"y":7}],"tool":"pencil","color":"#000","width":1}}}`},
		{name: "stroke with three points", frame: `{"type":"stroke","payload":{"roomId":"abc","line":{"points":[{"x":0,"y":0},{"x":1,"y":1},{"x":2,"y":2}],"tool":"pencil","color":"#000","width":1}}}`},
		{name: "stroke with no points", frame: `{"type":"stroke","payload":{"roomId":"abc","line":{"tool":"pencil","color":"#000","width":1}}}`},
		{name: "clear without room", frame: `{"type":"clear","payload":{}}`},
		{name: "cursor-move with bad tool", frame: `{"type":"cursor-move","payload":{"roomId":"abc","tool":"chainsaw"}}`},
		{name: "cursor-hide without room", frame: `{"type":"cursor-hide","payload":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &mockRelay{}
			handler := NewHandler(relay)
			conn := &mockConn{id: "client1"}

			handler.Handle(conn, []byte(tt.frame))

			assert.Empty(t, relay.getCalls())
		})
	}
}

func TestHandler_ClearAndHideRouted(t *testing.T) {
	relay := &mockRelay{}
	handler := NewHandler(relay)
	conn := &mockConn{id: "client1"}

	handler.Handle(conn, []byte(`{"type":"clear","payload":{"roomId":"abc"}}`))
	handler.Handle(conn, []byte(`{"type":"cursor-hide","payload":{"roomId":"abc"}}`))

	calls := relay.getCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "clear", calls[0].op)
	assert.Equal(t, "cursor-hide", calls[1].op)
	assert.Equal(t, "abc", calls[1].roomID)
}
