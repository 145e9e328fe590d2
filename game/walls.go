package game

// WallBox is the collision box of one wall slice
type WallBox struct {
	Rect
	Side Side
	Step int
}

// WallIndex keeps wall boxes in generation order. Boxes are appended at the
// tail and retired from the front only.
type WallIndex struct {
	boxes []WallBox
	head  int
}

// NewWallIndex creates an index with room for capacity boxes
func NewWallIndex(capacity int) *WallIndex {
	return &WallIndex{
		boxes: make([]WallBox, 0, capacity),
	}
}

// Append adds a box at the tail
func (w *WallIndex) Append(box WallBox) {
	w.boxes = append(w.boxes, box)
}

// Boxes returns the active boxes front to back. The slice is only valid
// until the next mutation.
func (w *WallIndex) Boxes() []WallBox {
	return w.boxes[w.head:]
}

// Len returns the number of active boxes
func (w *WallIndex) Len() int {
	return len(w.boxes) - w.head
}

// Front returns the oldest active box
func (w *WallIndex) Front() (WallBox, bool) {
	if w.Len() == 0 {
		return WallBox{}, false
	}
	return w.boxes[w.head], true
}

// PopWhile removes boxes from the front while retire returns true and
// reports how many were removed
func (w *WallIndex) PopWhile(retire func(WallBox) bool) int {
	n := 0
	for w.head < len(w.boxes) && retire(w.boxes[w.head]) {
		w.boxes[w.head] = WallBox{}
		w.head++
		n++
	}

	// Compact once the dead prefix dominates so the backing array stays bounded
	if w.head > 0 && w.head >= len(w.boxes)/2 {
		live := copy(w.boxes, w.boxes[w.head:])
		w.boxes = w.boxes[:live]
		w.head = 0
	}
	return n
}

// Clear removes every box but keeps capacity
func (w *WallIndex) Clear() {
	w.boxes = w.boxes[:0]
	w.head = 0
}
