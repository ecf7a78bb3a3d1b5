package relay

import "github.com/DipeshRajoria007/co-sketch/domain"

// strokeLog is a room's append-only drawing history. Methods assume the
// owning room's lock is held.
type strokeLog struct {
	strokes []domain.Stroke
}

// append commits a stroke and returns its position in the log.
func (l *strokeLog) append(s domain.Stroke) int {
	l.strokes = append(l.strokes, s)
	return len(l.strokes) - 1
}

// snapshot returns a copy of the log in commit order.
func (l *strokeLog) snapshot() []domain.Stroke {
	out := make([]domain.Stroke, len(l.strokes))
	copy(out, l.strokes)
	return out
}

func (l *strokeLog) clear() {
	l.strokes = l.strokes[:0]
}

func (l *strokeLog) len() int {
	return len(l.strokes)
}
