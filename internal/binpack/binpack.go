// Package binpack implements a MaxRects 2D bin-packing allocator: deterministic
// placement of axis-aligned rectangles onto a bin using one of five scoring
// heuristics, with offline batch insertion and post-pack shrink-to-fit.
//
// Ported from the original tile2ee BinPack2D (an adaptation of Jukka
// Jylänki's RectangleBinPack MaxRectsBinPack), generalized to the spec's
// bin-packing contract. Rectangles are placed upright only; no rotation.
package binpack

import "math"

// Rect is an axis-aligned rectangle. Width*Height == 0 denotes "not placed".
type Rect struct {
	X, Y, Width, Height int
}

// RectSize is an unplaced rectangle's dimensions, used by batch Insert.
type RectSize struct {
	Width, Height int
}

// Rule selects the scoring heuristic used to choose a placement.
type Rule int

const (
	// BestShortSideFit positions the rectangle against the short side of the
	// free rectangle it fits best.
	BestShortSideFit Rule = iota
	// BestLongSideFit positions the rectangle against the long side of the
	// free rectangle it fits best.
	BestLongSideFit
	// BestAreaFit places the rectangle into the smallest free rectangle it
	// fits into.
	BestAreaFit
	// BottomLeftRule does "Tetris" style placement: lowest Y, then lowest X.
	BottomLeftRule
	// ContactPointRule maximizes the length of edges shared with the bin
	// border and other used rectangles.
	ContactPointRule
)

// Bin is a packing surface of (Width, Height) plus disjoint used/free
// rectangle sets. See spec §3 for the maintained invariants.
type Bin struct {
	Width, Height int
	used          []Rect
	free          []Rect
}

// New creates a bin of the given size with one free rectangle covering it.
func New(width, height int) *Bin {
	b := &Bin{}
	b.Init(width, height)
	return b
}

// Init (re)initializes the bin to an empty width x height bin, discarding
// any prior placements.
func (b *Bin) Init(width, height int) {
	b.Width = width
	b.Height = height
	b.used = b.used[:0]
	b.free = append(b.free[:0], Rect{0, 0, width, height})
}

// Used returns the placed rectangles. The returned slice is shared; callers
// must not mutate it.
func (b *Bin) Used() []Rect { return b.used }

// Free returns the current free-rectangle cover. The returned slice is
// shared; callers must not mutate it.
func (b *Bin) Free() []Rect { return b.free }

// Insert places a single width x height rectangle using the given rule.
// Returns a zero-area Rect (Width==0 && Height==0) if no free rectangle
// admits it.
func (b *Bin) Insert(width, height int, rule Rule) Rect {
	var score1, score2 int
	node := b.scoreRect(width, height, rule, &score1, &score2)
	if node.Height == 0 {
		return node
	}
	b.placeRect(node)
	return node
}

// InsertBatch packs a multiset of sizes offline: repeatedly picks the size
// whose best score is globally minimal across all sizes and all free
// rectangles, places it, and removes it from the pending set. Stops when no
// remaining size fits. Returns the placed rectangles; the order does not
// correspond to the index of sizes.
func (b *Bin) InsertBatch(sizes []RectSize, rule Rule) []Rect {
	pending := make([]RectSize, len(sizes))
	copy(pending, sizes)

	var placed []Rect
	for len(pending) > 0 {
		bestScore1 := math.MaxInt
		bestScore2 := math.MaxInt
		bestIndex := -1
		var bestNode Rect

		for i, sz := range pending {
			var s1, s2 int
			node := b.scoreRect(sz.Width, sz.Height, rule, &s1, &s2)
			if s1 < bestScore1 || (s1 == bestScore1 && s2 < bestScore2) {
				bestScore1, bestScore2 = s1, s2
				bestNode = node
				bestIndex = i
			}
		}

		if bestIndex == -1 {
			break
		}

		b.placeRect(bestNode)
		placed = append(placed, bestNode)
		pending = append(pending[:bestIndex], pending[bestIndex+1:]...)
	}
	return placed
}

// Occupancy returns the ratio of used surface area to total bin area.
func (b *Bin) Occupancy() float64 {
	var used int64
	for _, r := range b.used {
		used += int64(r.Width) * int64(r.Height)
	}
	total := int64(b.Width) * int64(b.Height)
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// ShrinkToFit shrinks the bin to the bounding box of its used rectangles. If
// binary is set, the new dimensions are rounded to the smallest power of two
// that still encloses the bounding box (by repeatedly halving the current
// bin size while it still encloses the bound), matching a PVRZ page's
// power-of-two requirement. When the bounding box does not start at the
// origin, every used rectangle is translated by (-minX, -minY) and the free
// list is cleared, since post-shrink free geometry is no longer meaningful.
//
// The original implementation's translation loop used iterators that were
// never advanced, making the translation step unreachable; this is the
// corrected behavior (see spec §9 / DESIGN.md).
func (b *Bin) ShrinkToFit(binary bool) {
	if len(b.used) == 0 {
		return
	}

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, r := range b.used {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.X+r.Width > maxX {
			maxX = r.X + r.Width
		}
		if r.Y+r.Height > maxY {
			maxY = r.Y + r.Height
		}
	}

	newWidth := maxX - minX
	newHeight := maxY - minY

	if binary {
		curWidth, curHeight := b.Width, b.Height
		for newWidth <= curWidth>>1 {
			curWidth >>= 1
		}
		newWidth = curWidth
		for newHeight <= curHeight>>1 {
			curHeight >>= 1
		}
		newHeight = curHeight
	}

	if minX > 0 || minY > 0 {
		for i := range b.used {
			b.used[i].X -= minX
			b.used[i].Y -= minY
		}
		b.free = b.free[:0]
	}

	b.Width = newWidth
	b.Height = newHeight
}

func (b *Bin) placeRect(node Rect) {
	n := len(b.free)
	for i := 0; i < n; i++ {
		if b.splitFreeNode(b.free[i], node) {
			b.free = append(b.free[:i], b.free[i+1:]...)
			i--
			n--
		}
	}
	b.pruneFreeList()
	b.used = append(b.used, node)
}

func (b *Bin) scoreRect(width, height int, rule Rule, score1, score2 *int) Rect {
	*score1 = math.MaxInt
	*score2 = math.MaxInt

	var node Rect
	switch rule {
	case BestShortSideFit:
		node = b.findBestShortSideFit(width, height, score1, score2)
	case BestLongSideFit:
		node = b.findBestLongSideFit(width, height, score2, score1)
	case BestAreaFit:
		node = b.findBestAreaFit(width, height, score1, score2)
	case BottomLeftRule:
		node = b.findBottomLeft(width, height, score1, score2)
	case ContactPointRule:
		var contact int
		node = b.findContactPoint(width, height, &contact)
		*score1 = -contact // minimizing, but bigger contact is better
	}

	if node.Height == 0 {
		*score1 = math.MaxInt
		*score2 = math.MaxInt
	}
	return node
}

func (b *Bin) findBottomLeft(width, height int, bestY, bestX *int) Rect {
	var best Rect
	*bestY = math.MaxInt

	for _, f := range b.free {
		if f.Width >= width && f.Height >= height {
			topSideY := f.Y + height
			if topSideY < *bestY || (topSideY == *bestY && f.X < *bestX) {
				best = Rect{f.X, f.Y, width, height}
				*bestY = topSideY
				*bestX = f.X
			}
		}
	}
	return best
}

func (b *Bin) findBestShortSideFit(width, height int, bestShort, bestLong *int) Rect {
	var best Rect
	*bestShort = math.MaxInt

	for _, f := range b.free {
		if f.Width >= width && f.Height >= height {
			leftoverH := iabs(f.Width - width)
			leftoverV := iabs(f.Height - height)
			short := imin(leftoverH, leftoverV)
			long := imax(leftoverH, leftoverV)
			if short < *bestShort || (short == *bestShort && long < *bestLong) {
				best = Rect{f.X, f.Y, width, height}
				*bestShort = short
				*bestLong = long
			}
		}
	}
	return best
}

func (b *Bin) findBestLongSideFit(width, height int, bestShort, bestLong *int) Rect {
	var best Rect
	*bestLong = math.MaxInt

	for _, f := range b.free {
		if f.Width >= width && f.Height >= height {
			leftoverH := iabs(f.Width - width)
			leftoverV := iabs(f.Height - height)
			short := imin(leftoverH, leftoverV)
			long := imax(leftoverH, leftoverV)
			if long < *bestLong || (long == *bestLong && short < *bestShort) {
				best = Rect{f.X, f.Y, width, height}
				*bestShort = short
				*bestLong = long
			}
		}
	}
	return best
}

func (b *Bin) findBestAreaFit(width, height int, bestArea, bestShort *int) Rect {
	var best Rect
	*bestArea = math.MaxInt

	for _, f := range b.free {
		areaFit := f.Width*f.Height - width*height
		if f.Width >= width && f.Height >= height {
			leftoverH := iabs(f.Width - width)
			leftoverV := iabs(f.Height - height)
			short := imin(leftoverH, leftoverV)
			if areaFit < *bestArea || (areaFit == *bestArea && short < *bestShort) {
				best = Rect{f.X, f.Y, width, height}
				*bestShort = short
				*bestArea = areaFit
			}
		}
	}
	return best
}

func (b *Bin) findContactPoint(width, height int, bestScore *int) Rect {
	var best Rect
	*bestScore = -1

	for _, f := range b.free {
		if f.Width >= width && f.Height >= height {
			score := b.contactPointScore(f.X, f.Y, width, height)
			if score > *bestScore {
				best = Rect{f.X, f.Y, width, height}
				*bestScore = score
			}
		}
	}
	return best
}

// contactPointScore counts the length of edges shared with the bin border
// and with every used rectangle.
func (b *Bin) contactPointScore(x, y, width, height int) int {
	score := 0
	if x == 0 || x+width == b.Width {
		score += height
	}
	if y == 0 || y+height == b.Height {
		score += width
	}

	for _, u := range b.used {
		if u.X == x+width || u.X+u.Width == x {
			score += commonInterval(u.Y, u.Y+u.Height, y, y+height)
		}
		if u.Y == y+height || u.Y+u.Height == y {
			score += commonInterval(u.X, u.X+u.Width, x, x+width)
		}
	}
	return score
}

// splitFreeNode replaces freeNode, if it strictly intersects usedNode, with
// up to four residual slabs (top/bottom/left/right) outside usedNode but
// inside freeNode. Returns true if freeNode was split (and must be removed
// by the caller).
func (b *Bin) splitFreeNode(freeNode, usedNode Rect) bool {
	if usedNode.X >= freeNode.X+freeNode.Width || usedNode.X+usedNode.Width <= freeNode.X ||
		usedNode.Y >= freeNode.Y+freeNode.Height || usedNode.Y+usedNode.Height <= freeNode.Y {
		return false
	}

	if usedNode.X < freeNode.X+freeNode.Width && usedNode.X+usedNode.Width > freeNode.X {
		if usedNode.Y > freeNode.Y && usedNode.Y < freeNode.Y+freeNode.Height {
			n := freeNode
			n.Height = usedNode.Y - n.Y
			b.free = append(b.free, n)
		}
		if usedNode.Y+usedNode.Height < freeNode.Y+freeNode.Height {
			n := freeNode
			n.Y = usedNode.Y + usedNode.Height
			n.Height = freeNode.Y + freeNode.Height - n.Y
			b.free = append(b.free, n)
		}
	}

	if usedNode.Y < freeNode.Y+freeNode.Height && usedNode.Y+usedNode.Height > freeNode.Y {
		if usedNode.X > freeNode.X && usedNode.X < freeNode.X+freeNode.Width {
			n := freeNode
			n.Width = usedNode.X - n.X
			b.free = append(b.free, n)
		}
		if usedNode.X+usedNode.Width < freeNode.X+freeNode.Width {
			n := freeNode
			n.X = usedNode.X + usedNode.Width
			n.Width = freeNode.X + freeNode.Width - n.X
			b.free = append(b.free, n)
		}
	}

	return true
}

// pruneFreeList removes any free rectangle wholly contained in another.
func (b *Bin) pruneFreeList() {
	for i := 0; i < len(b.free); i++ {
		for j := i + 1; j < len(b.free); j++ {
			if isContainedIn(b.free[i], b.free[j]) {
				b.free = append(b.free[:i], b.free[i+1:]...)
				i--
				break
			}
			if isContainedIn(b.free[j], b.free[i]) {
				b.free = append(b.free[:j], b.free[j+1:]...)
				j--
			}
		}
	}
}

func isContainedIn(a, b Rect) bool {
	return a.X >= b.X && a.Y >= b.Y &&
		a.X+a.Width <= b.X+b.Width &&
		a.Y+a.Height <= b.Y+b.Height
}

// commonInterval returns the length of overlap between [i1start,i1end) and
// [i2start,i2end), or 0 if disjoint.
func commonInterval(i1start, i1end, i2start, i2end int) int {
	if i1end < i2start || i2end < i1start {
		return 0
	}
	return imin(i1end, i2end) - imax(i1start, i2start)
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
