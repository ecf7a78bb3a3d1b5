package domain

import (
	"encoding/json"
	"fmt"
)

// Event names accepted from clients.
const (
	EventJoin       = "join"
	EventStroke     = "stroke"
	EventClear      = "clear"
	EventCursorMove = "cursor-move"
	EventCursorHide = "cursor-hide"
)

// Event names emitted to clients. Stroke, clear, and cursor-hide reuse the
// inbound names.
const (
	EventInit         = "init"
	EventUsers        = "users"
	EventUserJoined   = "user-joined"
	EventCursorUpdate = "cursor-update"
	EventUserLeft     = "user-left"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	RoomID string       `json:"roomId"`
	User   UserPresence `json:"user"`
}

// StrokePayload is inbound with RoomID set, outbound with only Line.
type StrokePayload struct {
	RoomID string  `json:"roomId,omitempty"`
	Line   *Stroke `json:"line"`
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type CursorMovePayload struct {
	RoomID    string   `json:"roomId"`
	Cursor    *Point   `json:"cursor"`
	Tool      ToolKind `json:"tool"`
	IsDrawing bool     `json:"isDrawing"`
	Color     string   `json:"color"`
	Size      float64  `json:"size"`
}

type InitPayload struct {
	Strokes []Stroke `json:"strokes"`
}

type UsersPayload struct {
	Users []UserPresence `json:"users"`
}

type UserJoinedPayload struct {
	User UserPresence `json:"user"`
}

type CursorUpdatePayload struct {
	UserID string       `json:"userId"`
	User   UserPresence `json:"user"`
}

// UserRefPayload names a member in cursor-hide and user-left events.
type UserRefPayload struct {
	UserID string `json:"userId"`
}

// UnmarshalJSON rejects a line unless it carries exactly two points. A plain
// decode into [2]Point would zero-fill a short array and truncate a long one
// without erroring, committing a fabricated segment to the room log.
func (s *Stroke) UnmarshalJSON(data []byte) error {
	var wire struct {
		Points []Point  `json:"points"`
		Tool   ToolKind `json:"tool"`
		Color  string   `json:"color"`
		Width  float64  `json:"width"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if len(wire.Points) != 2 {
		return fmt.Errorf("stroke has %d points, want 2", len(wire.Points))
	}
	s.Points = [2]Point{wire.Points[0], wire.Points[1]}
	s.Tool = wire.Tool
	s.Color = wire.Color
	s.Width = wire.Width
	return nil
}

// Marshal encodes payload inside an Envelope of the given event type.
func Marshal(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}
