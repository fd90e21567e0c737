// Package collision implements the gather-event detector: given a set of
// moving gatherers (dogs) and a set of static items (lost objects, offices),
// it projects each item onto each gatherer's motion segment and reports the
// contacts in the order they would have occurred during the tick.
package collision

import (
	"sort"

	"github.com/Proger1298/gaming-server/internal/geom"
)

// Gatherer is a moving entity whose motion segment (Start -> End) during the
// tick is tested against every item. HalfWidth is its collection radius.
type Gatherer struct {
	Start     geom.Position
	End       geom.Position
	HalfWidth float64
}

// Item is a static point with a collection radius.
type Item struct {
	Position  geom.Position
	HalfWidth float64
}

// Provider exposes the gatherers and items for one tick's collision pass.
// Implementations are free to choose any concatenation/order for items; the
// returned index is opaque to the caller and is only used to look the item
// back up in the same provider.
type Provider interface {
	GatherersCount() int
	Gatherer(i int) Gatherer
	ItemsCount() int
	Item(i int) Item
}

// Event is a single detected contact between one gatherer and one item.
type Event struct {
	GathererIndex int
	ItemIndex     int
	SqDistance    float64
	Proj          float64
}

// FindGatherEvents returns every qualifying (gatherer, item) contact across
// the whole provider, sorted ascending by Proj (the fractional "time" along
// the gatherer's motion segment at which the contact occurs), with ties
// broken by (gathererIndex, itemIndex) for a deterministic, stable order.
//
// A gatherer whose Start equals its End (no motion this tick) never
// generates events.
func FindGatherEvents(p Provider) []Event {
	var events []Event

	for g := 0; g < p.GatherersCount(); g++ {
		gatherer := p.Gatherer(g)
		vx := gatherer.End.X - gatherer.Start.X
		vy := gatherer.End.Y - gatherer.Start.Y
		vLen2 := vx*vx + vy*vy
		if vLen2 == 0 {
			continue
		}

		for i := 0; i < p.ItemsCount(); i++ {
			item := p.Item(i)
			ux := item.Position.X - gatherer.Start.X
			uy := item.Position.Y - gatherer.Start.Y

			uDotV := ux*vx + uy*vy
			uLen2 := ux*ux + uy*uy

			proj := uDotV / vLen2
			sqDist := uLen2 - (uDotV*uDotV)/vLen2

			radiusSum := gatherer.HalfWidth + item.HalfWidth
			if isCollected(sqDist, proj, radiusSum) {
				events = append(events, Event{
					GathererIndex: g,
					ItemIndex:     i,
					SqDistance:    sqDist,
					Proj:          proj,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Proj != events[j].Proj {
			return events[i].Proj < events[j].Proj
		}
		if events[i].GathererIndex != events[j].GathererIndex {
			return events[i].GathererIndex < events[j].GathererIndex
		}
		return events[i].ItemIndex < events[j].ItemIndex
	})

	return events
}

// isCollected is the reconstructed predicate from the original collision
// detector (its defining header was never retrieved): proj must fall within
// the segment, inclusive of both endpoints, and the squared perpendicular
// distance must not exceed the squared sum of the two radii.
func isCollected(sqDistance, proj, radiusSum float64) bool {
	return proj >= 0 && proj <= 1 && sqDistance <= radiusSum*radiusSum
}
