package relay

import (
	"log/slog"
	"sync"

	"github.com/DipeshRajoria007/co-sketch/domain"
	"github.com/DipeshRajoria007/co-sketch/metrics"
)

// Relay is the single mutator of all room state. It tracks each connection
// through Connecting -> Joined(room) -> Closed, applies inbound events under
// the owning room's lock, and fans resulting events out to the other members.
type Relay struct {
	log      *slog.Logger
	registry *registry

	mu       sync.RWMutex
	sessions map[string]*session
}

// session is one connection's lifecycle state. roomID is empty until a join
// succeeds; a connection is in at most one room.
type session struct {
	conn   domain.Connection
	roomID string
}

func New(logger *slog.Logger) *Relay {
	return &Relay{
		log:      logger,
		registry: newRegistry(),
		sessions: make(map[string]*session),
	}
}

// Register enters a connection in the Connecting state. Events other than
// join are ignored until the connection joins a room.
func (r *Relay) Register(conn domain.Connection) {
	r.mu.Lock()
	r.sessions[conn.ID()] = &session{conn: conn}
	r.mu.Unlock()
	r.log.Debug("client connected", "clientId", conn.ID())
}

// Join resolves or creates the room, inserts the presence record, and
// delivers the join snapshot. Snapshot capture happens under the room lock in
// the same step as the insertion, so no event for the room can slip between
// them and diverge from what later broadcasts carry.
func (r *Relay) Join(conn domain.Connection, roomID string, user domain.UserPresence) {
	r.mu.Lock()
	s := r.sessions[conn.ID()]
	if s == nil || s.roomID != "" {
		r.mu.Unlock()
		r.drop(domain.EventJoin, conn, "already joined or unknown connection")
		return
	}
	r.mu.Unlock()

	var clients int
	for {
		rm := r.registry.getOrCreate(roomID)
		rm.mu.Lock()
		if rm.closed {
			rm.mu.Unlock()
			continue
		}
		joined, others := rm.presence.join(conn.ID(), user)
		rm.members[conn.ID()] = conn
		strokes := rm.log.snapshot()
		clients = rm.presence.len()

		r.send(conn, domain.EventInit, domain.InitPayload{Strokes: strokes})
		r.send(conn, domain.EventUsers, domain.UsersPayload{Users: others})
		r.fanout(rm, conn.ID(), domain.EventUserJoined, domain.UserJoinedPayload{User: joined})
		rm.mu.Unlock()
		break
	}

	r.mu.Lock()
	if s := r.sessions[conn.ID()]; s != nil {
		s.roomID = roomID
	}
	r.mu.Unlock()

	metrics.ActiveClients.Inc()
	r.log.Info("client joined", "room", roomID, "clientId", conn.ID(), "clients", clients)
}

// Stroke appends a committed stroke to the room log and relays it to the
// other members.
func (r *Relay) Stroke(conn domain.Connection, roomID string, line domain.Stroke) {
	rm := r.roomFor(conn, roomID)
	if rm == nil {
		r.drop(domain.EventStroke, conn, "not joined to room")
		return
	}
	rm.mu.Lock()
	rm.log.append(line)
	r.fanout(rm, conn.ID(), domain.EventStroke, domain.StrokePayload{Line: &line})
	rm.mu.Unlock()
	metrics.StrokesCommitted.Inc()
}

// Clear empties the room's stroke log. The clear notification goes out under
// the same lock hold, so no member can observe a stroke surviving the clear
// unless it was committed after.
func (r *Relay) Clear(conn domain.Connection, roomID string) {
	rm := r.roomFor(conn, roomID)
	if rm == nil {
		r.drop(domain.EventClear, conn, "not joined to room")
		return
	}
	rm.mu.Lock()
	rm.log.clear()
	r.fanout(rm, conn.ID(), domain.EventClear, struct{}{})
	rm.mu.Unlock()
	r.log.Info("room cleared", "room", roomID, "clientId", conn.ID())
}

// CursorMove replaces the sender's mutable presence fields and announces the
// updated record. A record missing after a disconnect race is a silent no-op.
func (r *Relay) CursorMove(conn domain.Connection, roomID string, state domain.CursorState) {
	rm := r.roomFor(conn, roomID)
	if rm == nil {
		r.drop(domain.EventCursorMove, conn, "not joined to room")
		return
	}
	rm.mu.Lock()
	if u, ok := rm.presence.updateCursor(conn.ID(), state); ok {
		r.fanout(rm, conn.ID(), domain.EventCursorUpdate, domain.CursorUpdatePayload{UserID: u.ID, User: u})
	}
	rm.mu.Unlock()
}

// CursorHide clears the sender's cursor fields while keeping it a member.
func (r *Relay) CursorHide(conn domain.Connection, roomID string) {
	rm := r.roomFor(conn, roomID)
	if rm == nil {
		r.drop(domain.EventCursorHide, conn, "not joined to room")
		return
	}
	rm.mu.Lock()
	if rm.presence.hideCursor(conn.ID()) {
		r.fanout(rm, conn.ID(), domain.EventCursorHide, domain.UserRefPayload{UserID: conn.ID()})
	}
	rm.mu.Unlock()
}

// Disconnect removes the connection's presence and deletes the room if it
// emptied. Safe to call more than once; user-left is only announced when a
// record was actually removed.
func (r *Relay) Disconnect(conn domain.Connection) {
	r.mu.Lock()
	s := r.sessions[conn.ID()]
	delete(r.sessions, conn.ID())
	r.mu.Unlock()

	if s == nil || s.roomID == "" {
		return
	}
	rm := r.registry.get(s.roomID)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	_, removed := rm.presence.leave(conn.ID())
	delete(rm.members, conn.ID())
	clients := rm.presence.len()
	if removed {
		r.fanout(rm, conn.ID(), domain.EventUserLeft, domain.UserRefPayload{UserID: conn.ID()})
	}
	rm.mu.Unlock()

	if removed {
		metrics.ActiveClients.Dec()
		r.log.Info("client disconnected", "room", s.roomID, "clientId", conn.ID(), "clients", clients)
	}
	if r.registry.removeIfEmpty(s.roomID) {
		r.log.Info("room removed", "room", s.roomID)
	}
}

// Stats reports the number of open rooms and joined clients.
func (r *Relay) Stats() (rooms, clients int) {
	return r.registry.stats()
}

// roomFor resolves the room a non-join event targets. It must be the room
// the connection joined; anything else is unroutable.
func (r *Relay) roomFor(conn domain.Connection, roomID string) *room {
	r.mu.RLock()
	s := r.sessions[conn.ID()]
	r.mu.RUnlock()
	if s == nil || s.roomID == "" || s.roomID != roomID {
		return nil
	}
	return r.registry.get(roomID)
}

// send delivers a single event to one connection.
func (r *Relay) send(conn domain.Connection, event string, payload any) {
	data, err := domain.Marshal(event, payload)
	if err != nil {
		r.log.Warn("marshal error", "event", event, "clientId", conn.ID(), "error", err)
		return
	}
	_ = conn.Send(data)
}

// fanout marshals once and broadcasts to every member except the sender.
// Callers hold the room lock.
func (r *Relay) fanout(rm *room, senderID, event string, payload any) {
	data, err := domain.Marshal(event, payload)
	if err != nil {
		r.log.Warn("marshal error", "event", event, "clientId", senderID, "error", err)
		return
	}
	n := rm.broadcast(senderID, data)
	metrics.BroadcastsSent.Add(float64(n))
}

func (r *Relay) drop(event string, conn domain.Connection, reason string) {
	metrics.EventsDropped.WithLabelValues("unroutable").Inc()
	r.log.Debug("event dropped", "event", event, "clientId", conn.ID(), "reason", reason)
}
