package protocol

import (
	"encoding/json"
	"log/slog"

	"github.com/DipeshRajoria007/co-sketch/domain"
	"github.com/DipeshRajoria007/co-sketch/metrics"
)

// Handler decodes inbound frames and routes them to the relay. Frames that
// fail decoding or validation are dropped without a reply to the sender.
type Handler struct {
	relay domain.Relay
}

func NewHandler(r domain.Relay) *Handler {
	return &Handler{relay: r}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.drop(conn, "invalid envelope", err)
		return
	}

	switch env.Type {
	case domain.EventJoin:
		var p domain.JoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.drop(conn, "invalid join payload", err)
			return
		}
		if p.RoomID == "" {
			h.drop(conn, "join without room id", nil)
			return
		}
		h.relay.Join(conn, p.RoomID, p.User)

	case domain.EventStroke:
		var p domain.StrokePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.drop(conn, "invalid stroke payload", err)
			return
		}
		if p.RoomID == "" || p.Line == nil || !p.Line.Tool.Valid() {
			h.drop(conn, "incomplete stroke", nil)
			return
		}
		h.relay.Stroke(conn, p.RoomID, *p.Line)

	case domain.EventClear:
		var p domain.RoomPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.RoomID == "" {
			h.drop(conn, "invalid clear payload", err)
			return
		}
		h.relay.Clear(conn, p.RoomID)

	case domain.EventCursorMove:
		var p domain.CursorMovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.drop(conn, "invalid cursor payload", err)
			return
		}
		if p.RoomID == "" || (p.Tool != "" && !p.Tool.Valid()) {
			h.drop(conn, "incomplete cursor update", nil)
			return
		}
		h.relay.CursorMove(conn, p.RoomID, domain.CursorState{
			Cursor:    p.Cursor,
			Tool:      p.Tool,
			IsDrawing: p.IsDrawing,
			Color:     p.Color,
			Size:      p.Size,
		})

	case domain.EventCursorHide:
		var p domain.RoomPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.RoomID == "" {
			h.drop(conn, "invalid cursor-hide payload", err)
			return
		}
		h.relay.CursorHide(conn, p.RoomID)

	default:
		h.drop(conn, "unknown event type", nil)
	}
}

func (h *Handler) drop(conn domain.Connection, reason string, err error) {
	metrics.EventsDropped.WithLabelValues("malformed").Inc()
	slog.Warn("invalid message", "clientId", conn.ID(), "reason", reason, "error", err)
}
