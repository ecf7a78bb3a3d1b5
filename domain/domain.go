package domain

// Point is a position in room-local pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToolKind identifies the drawing tool a stroke or cursor is using. The
// relay stores strokes uniformly regardless of tool; the set is closed so
// unknown values are rejected at the protocol boundary.
type ToolKind string

const (
	ToolPencil ToolKind = "pencil"
	ToolEraser ToolKind = "eraser"
	ToolMarker ToolKind = "marker"
	ToolCircle ToolKind = "circle"
	ToolSquare ToolKind = "square"
)

func (t ToolKind) Valid() bool {
	switch t {
	case ToolPencil, ToolEraser, ToolMarker, ToolCircle, ToolSquare:
		return true
	}
	return false
}

// Stroke is one committed line segment. Strokes are immutable once the relay
// accepts them; their order within a room is the relay's commit order.
type Stroke struct {
	Points [2]Point `json:"points"`
	Tool   ToolKind `json:"tool"`
	Color  string   `json:"color"`
	Width  float64  `json:"width"`
}

// UserPresence is a member's live display state within a room. ID is always
// the connection identity assigned by the relay, never a client-supplied
// value. A nil Cursor means the user is not currently visible on the board.
type UserPresence struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Initials  string   `json:"initials"`
	Cursor    *Point   `json:"cursor,omitempty"`
	Tool      ToolKind `json:"tool,omitempty"`
	IsDrawing bool     `json:"isDrawing"`
	Color     string   `json:"color,omitempty"`
	Size      float64  `json:"size,omitempty"`
}

// CursorState carries the mutable presence fields of a cursor-move event.
// They replace the previous values wholesale.
type CursorState struct {
	Cursor    *Point
	Tool      ToolKind
	IsDrawing bool
	Color     string
	Size      float64
}

// Connection is one client's transport channel. ID is stable for the life of
// the socket. Send must not block; a send to a congested or closing peer may
// be dropped.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Relay applies validated inbound events to room state and fans the results
// out to the other members of the room. All room mutations go through it.
type Relay interface {
	Register(conn Connection)
	Join(conn Connection, roomID string, user UserPresence)
	Stroke(conn Connection, roomID string, line Stroke)
	Clear(conn Connection, roomID string)
	CursorMove(conn Connection, roomID string, state CursorState)
	CursorHide(conn Connection, roomID string)
	Disconnect(conn Connection)
	Stats() (rooms, clients int)
}

// MessageHandler consumes raw inbound frames from a connection.
type MessageHandler interface {
	Handle(conn Connection, data []byte)
}
