package pane

// Direction of a focus movement between panes.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// FindInDirection picks the pane the focus should move to, given the
// current pane's rectangle and the rectangles of all panes.
//
// Candidates are the panes strictly on the far side along the movement
// axis. Among candidates overlapping the current pane on the
// perpendicular axis, the one with the smallest edge gap wins, ties
// broken by largest overlap. When nothing overlaps (offset layouts), the
// nearest center wins. Returns false when no pane lies in that direction.
func FindInDirection(currentID ID, current Rect, all []PaneRect, dir Direction) (ID, bool) {
	var candidates []PaneRect
	for _, pr := range all {
		if pr.ID == currentID {
			continue
		}
		r := pr.Rect
		var ahead bool
		switch dir {
		case DirRight:
			ahead = r.X >= current.X+current.Width
		case DirLeft:
			ahead = r.X+r.Width <= current.X
		case DirDown:
			ahead = r.Y >= current.Y+current.Height
		case DirUp:
			ahead = r.Y+r.Height <= current.Y
		}
		if ahead {
			candidates = append(candidates, pr)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	best := ID(0)
	bestDist, bestOverlap := 0, 0
	found := false
	for _, pr := range candidates {
		overlap := perpendicularOverlap(current, pr.Rect, dir)
		if overlap <= 0 {
			continue
		}
		dist := edgeDistance(current, pr.Rect, dir)
		if !found || dist < bestDist || (dist == bestDist && overlap > bestOverlap) {
			best, bestDist, bestOverlap = pr.ID, dist, overlap
			found = true
		}
	}
	if found {
		return best, true
	}

	// No overlapping candidate. Fall back to the nearest center.
	cx := current.X + current.Width/2
	cy := current.Y + current.Height/2
	bestSq := 0
	for i, pr := range candidates {
		rx := pr.Rect.X + pr.Rect.Width/2
		ry := pr.Rect.Y + pr.Rect.Height/2
		sq := (cx-rx)*(cx-rx) + (cy-ry)*(cy-ry)
		if i == 0 || sq < bestSq {
			best, bestSq = pr.ID, sq
		}
	}
	return best, true
}

// perpendicularOverlap is the shared extent of a and b on the axis at a
// right angle to the movement direction.
func perpendicularOverlap(a, b Rect, dir Direction) int {
	var aStart, aEnd, bStart, bEnd int
	switch dir {
	case DirLeft, DirRight:
		aStart, aEnd = a.Y, a.Y+a.Height
		bStart, bEnd = b.Y, b.Y+b.Height
	default:
		aStart, aEnd = a.X, a.X+a.Width
		bStart, bEnd = b.X, b.X+b.Width
	}
	overlap := min(aEnd, bEnd) - max(aStart, bStart)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// edgeDistance is the gap between the facing edges of from and to.
func edgeDistance(from, to Rect, dir Direction) int {
	var d int
	switch dir {
	case DirRight:
		d = to.X - (from.X + from.Width)
	case DirLeft:
		d = from.X - (to.X + to.Width)
	case DirDown:
		d = to.Y - (from.Y + from.Height)
	default:
		d = from.Y - (to.Y + to.Height)
	}
	if d < 0 {
		return 0
	}
	return d
}
