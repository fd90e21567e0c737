// Package model implements the road graph, dogs, bags, lost objects, and the
// per-map catalogs that make up one game map's static and dynamic state.
package model

import (
	"encoding/json"

	"github.com/Proger1298/gaming-server/internal/geom"
)

// RoadWidth is the full width of a road's inflated collision rectangle.
const RoadWidth = 0.8

// HalfRoadWidth is half of RoadWidth, the amount each road is inflated on
// either side of its centerline.
const HalfRoadWidth = RoadWidth / 2

// Road is a single horizontal or vertical segment of the walkable road
// graph. Segment is the RealRectangle obtained by inflating the centerline
// by HalfRoadWidth.
type Road struct {
	Start   geom.Point
	End     geom.Point
	Segment geom.RealRectangle
}

// NewHorizontalRoad builds a road whose start and end share the same Y.
func NewHorizontalRoad(start, end geom.Point) Road {
	x1, x2 := float64(start.X), float64(end.X)
	y := float64(start.Y)
	return Road{
		Start:   start,
		End:     end,
		Segment: geom.NewRealRectangle(x1-HalfRoadWidth, y-HalfRoadWidth, x2+HalfRoadWidth, y+HalfRoadWidth),
	}
}

// NewVerticalRoad builds a road whose start and end share the same X.
func NewVerticalRoad(start, end geom.Point) Road {
	x := float64(start.X)
	y1, y2 := float64(start.Y), float64(end.Y)
	return Road{
		Start:   start,
		End:     end,
		Segment: geom.NewRealRectangle(x-HalfRoadWidth, y1-HalfRoadWidth, x+HalfRoadWidth, y2+HalfRoadWidth),
	}
}

// IsHorizontal reports whether the road runs along the X axis.
func (r Road) IsHorizontal() bool { return r.Start.Y == r.End.Y }

// Building is a visual-only opaque rectangle; the movement engine never
// consults it, but it is retained verbatim for map responses and snapshots.
type Building struct {
	Bounds geom.Rectangle
}

// Office is a deposit point with a fixed collection radius of 0.5.
const OfficeHalfWidth = 0.5

type Office struct {
	ID       string
	Position geom.Point
	Offset   geom.Point
}

// LootType is a per-map catalog entry. Raw preserves every client-facing
// field verbatim (name, file, rotation, color, scale, ...) for re-serving in
// map responses; Value is the only field the engine itself consults.
type LootType struct {
	Raw   json.RawMessage
	Value int
}

// LostObject is a spawned collectable. ID is monotonic per-session (see
// Session.nextLostObjectID), not a process-wide global.
type LostObject struct {
	ID        int
	Type      int
	Position  geom.Position
	Value     int
	Collected bool
}

// Bag is a bounded, ordered collection of picked-up LostObjects.
type Bag struct {
	capacity int
	items    []LostObject
}

// NewBag constructs an empty bag with the given capacity.
func NewBag(capacity int) *Bag {
	return &Bag{capacity: capacity, items: make([]LostObject, 0, capacity)}
}

// Capacity returns the bag's maximum size.
func (b *Bag) Capacity() int { return b.capacity }

// Size returns the number of items currently held.
func (b *Bag) Size() int { return len(b.items) }

// IsFull reports whether the bag has reached capacity.
func (b *Bag) IsFull() bool { return len(b.items) >= b.capacity }

// Add appends an item, ignoring the call if the bag is already full (callers
// are expected to check IsFull first; this mirrors the original's defensive
// no-op rather than returning an error for what should never happen on a
// valid call path).
func (b *Bag) Add(item LostObject) {
	if b.IsFull() {
		return
	}
	b.items = append(b.items, item)
}

// Items returns the bag's current contents.
func (b *Bag) Items() []LostObject {
	return b.items
}

// Clear empties the bag, as happens when a dog deposits at an office.
func (b *Bag) Clear() {
	b.items = b.items[:0]
}

// ValueSum returns the sum of every item's value currently in the bag.
func (b *Bag) ValueSum() int {
	sum := 0
	for _, it := range b.items {
		sum += it.Value
	}
	return sum
}
