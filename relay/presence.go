package relay

import "github.com/DipeshRajoria007/co-sketch/domain"

// presenceTable maps connection identity to the live presence record of one
// room member. Methods assume the owning room's lock is held.
type presenceTable struct {
	users map[string]*domain.UserPresence
}

func newPresenceTable() *presenceTable {
	return &presenceTable{users: make(map[string]*domain.UserPresence)}
}

// join inserts a record keyed by connID, overriding any client-supplied id,
// and returns the new record plus copies of every other member's record.
func (p *presenceTable) join(connID string, user domain.UserPresence) (domain.UserPresence, []domain.UserPresence) {
	others := make([]domain.UserPresence, 0, len(p.users))
	for _, u := range p.users {
		others = append(others, *u)
	}
	user.ID = connID
	p.users[connID] = &user
	return user, others
}

// updateCursor replaces the mutable presence fields wholesale. A missing
// record is a benign race with disconnect, reported as ok=false.
func (p *presenceTable) updateCursor(connID string, state domain.CursorState) (domain.UserPresence, bool) {
	u, ok := p.users[connID]
	if !ok {
		return domain.UserPresence{}, false
	}
	u.Cursor = state.Cursor
	u.Tool = state.Tool
	u.IsDrawing = state.IsDrawing
	u.Color = state.Color
	u.Size = state.Size
	return *u, true
}

// hideCursor clears the visible-cursor fields without removing the record;
// the user stays a room member.
func (p *presenceTable) hideCursor(connID string) bool {
	u, ok := p.users[connID]
	if !ok {
		return false
	}
	u.Cursor = nil
	u.Tool = ""
	u.IsDrawing = false
	u.Color = ""
	u.Size = 0
	return true
}

// leave removes and returns the record. Removing an absent record is a no-op
// so disconnects stay idempotent.
func (p *presenceTable) leave(connID string) (domain.UserPresence, bool) {
	u, ok := p.users[connID]
	if !ok {
		return domain.UserPresence{}, false
	}
	delete(p.users, connID)
	return *u, true
}

func (p *presenceTable) len() int {
	return len(p.users)
}
