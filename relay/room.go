package relay

import (
	"sync"

	"github.com/DipeshRajoria007/co-sketch/domain"
	"github.com/DipeshRajoria007/co-sketch/metrics"
)

// room owns one collaboration namespace: the stroke log, the presence table,
// and the member connections broadcasts fan out to. mu serializes every
// mutation together with the fan-out that announces it, so no two events for
// the same room are ever in flight concurrently.
type room struct {
	mu       sync.Mutex
	log      strokeLog
	presence *presenceTable
	members  map[string]domain.Connection

	// set under mu when the registry deletes the room; a join that raced
	// the deletion re-resolves instead of inserting into the orphan.
	closed bool
}

func newRoom() *room {
	return &room{
		presence: newPresenceTable(),
		members:  make(map[string]domain.Connection),
	}
}

// broadcast sends data to every member except sender. Connection.Send is
// non-blocking, so holding the room lock across the fan-out never waits on a
// slow peer. Returns the number of recipients.
func (r *room) broadcast(senderID string, data []byte) int {
	n := 0
	for id, conn := range r.members {
		if id == senderID {
			continue
		}
		_ = conn.Send(data)
		n++
	}
	return n
}

// registry maps room identifiers to live rooms. Its lock covers only
// lookup, creation, and deletion, never event application.
type registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func newRegistry() *registry {
	return &registry{rooms: make(map[string]*room)}
}

// getOrCreate returns the room for roomID, creating an empty one if absent.
func (g *registry) getOrCreate(roomID string) *room {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[roomID]
	if rm == nil {
		rm = newRoom()
		g.rooms[roomID] = rm
		metrics.ActiveRooms.Inc()
	}
	return rm
}

// get returns the room for roomID, or nil.
func (g *registry) get(roomID string) *room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rooms[roomID]
}

// removeIfEmpty deletes roomID iff its presence table is empty. Reports
// whether the room was removed.
func (g *registry) removeIfEmpty(roomID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[roomID]
	if rm == nil {
		return false
	}
	rm.mu.Lock()
	empty := rm.presence.len() == 0
	if empty {
		rm.closed = true
	}
	rm.mu.Unlock()
	if empty {
		delete(g.rooms, roomID)
		metrics.ActiveRooms.Dec()
	}
	return empty
}

// stats counts rooms and joined clients across the registry.
func (g *registry) stats() (rooms, clients int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rooms = len(g.rooms)
	for _, rm := range g.rooms {
		rm.mu.Lock()
		clients += rm.presence.len()
		rm.mu.Unlock()
	}
	return rooms, clients
}
