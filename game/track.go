package game

import "math"

// Cursor is the generation head: where the next step starts and which way it faces
type Cursor struct {
	X, Z    float64
	Heading float64 // radians, 0 faces -Z
}

// Step is one fixed-stride straight slice of a segment
type Step struct {
	StartX, StartZ float64
	EndX, EndZ     float64

	// Heading at the end of the slice
	Heading float64

	// Index is the position of the step in the run, starting at 0
	Index int
}

// Length returns the chord length of the step
func (s Step) Length() float64 {
	return math.Hypot(s.EndX-s.StartX, s.EndZ-s.StartZ)
}

// TrackBuilder walks segments in fixed strides from a running cursor
type TrackBuilder struct {
	stride float64
	cursor Cursor
	count  int
}

// NewTrackBuilder creates a builder with the cursor at the origin
func NewTrackBuilder(stride float64) *TrackBuilder {
	return &TrackBuilder{stride: stride}
}

// Reset returns the cursor to the origin facing -Z
func (b *TrackBuilder) Reset() {
	b.cursor = Cursor{}
	b.count = 0
}

// Cursor returns the current generation head
func (b *TrackBuilder) Cursor() Cursor {
	return b.cursor
}

// Stride returns the step length
func (b *TrackBuilder) Stride() float64 {
	return b.stride
}

// Advance divides seg into equal strides and appends one step per stride
func (b *TrackBuilder) Advance(seg Segment) []Step {
	if seg.Length <= 0 || b.stride <= 0 {
		return nil
	}

	n := int(math.Ceil(seg.Length/b.stride - 1e-9))
	if n < 1 {
		n = 1
	}
	turn := seg.Angle / float64(n)

	steps := make([]Step, 0, n)
	for i := 0; i < n; i++ {
		start := b.cursor
		b.cursor.Heading += turn
		b.cursor.X += math.Sin(b.cursor.Heading) * b.stride
		b.cursor.Z -= math.Cos(b.cursor.Heading) * b.stride

		steps = append(steps, Step{
			StartX:  start.X,
			StartZ:  start.Z,
			EndX:    b.cursor.X,
			EndZ:    b.cursor.Z,
			Heading: b.cursor.Heading,
			Index:   b.count,
		})
		b.count++
	}
	return steps
}

// Track couples the path generator with the builder and keeps the road
// heading inside the configured bound
type Track struct {
	Path    *PathGenerator
	Builder *TrackBuilder

	maxHeading float64
	segments   int
}

// NewTrack creates a track over path, stepping at stride
func NewTrack(path *PathGenerator, stride, maxHeading float64) *Track {
	return &Track{
		Path:       path,
		Builder:    NewTrackBuilder(stride),
		maxHeading: maxHeading,
	}
}

// Reset rewinds the cursor and starts a fresh segment shuffle
func (t *Track) Reset() {
	t.Builder.Reset()
	t.Path.Reset()
	t.segments = 0
}

// Segments returns how many segments have been laid since the last reset
func (t *Track) Segments() int {
	return t.segments
}

// Extend lays the next segment. A turn that would carry the heading past
// the bound is mirrored so the road keeps making progress toward -Z.
func (t *Track) Extend() []Step {
	seg := t.Path.Next()
	if t.maxHeading > 0 {
		h := t.Builder.Cursor().Heading
		if math.Abs(h+seg.Angle) > t.maxHeading && math.Abs(h-seg.Angle) < math.Abs(h+seg.Angle) {
			seg.Angle = -seg.Angle
		}
	}
	t.segments++
	return t.Builder.Advance(seg)
}
