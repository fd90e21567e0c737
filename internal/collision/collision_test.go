package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/geom"
)

// sliceProvider is a simple test double mirroring the original repository's
// ItemGathererProviderImpl builder-style test double.
type sliceProvider struct {
	gatherers []Gatherer
	items     []Item
}

func (p *sliceProvider) GatherersCount() int      { return len(p.gatherers) }
func (p *sliceProvider) Gatherer(i int) Gatherer  { return p.gatherers[i] }
func (p *sliceProvider) ItemsCount() int          { return len(p.items) }
func (p *sliceProvider) Item(i int) Item          { return p.items[i] }

func (p *sliceProvider) addGatherer(start, end geom.Position, halfWidth float64) {
	p.gatherers = append(p.gatherers, Gatherer{Start: start, End: end, HalfWidth: halfWidth})
}

func (p *sliceProvider) addItem(pos geom.Position, halfWidth float64) {
	p.items = append(p.items, Item{Position: pos, HalfWidth: halfWidth})
}

func TestFindGatherEventsSkipsStationaryGatherers(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 1, Y: 1}, geom.Position{X: 1, Y: 1}, 0.3)
	p.addItem(geom.Position{X: 1, Y: 1}, 0.0)

	events := FindGatherEvents(p)
	assert.Empty(t, events)
}

func TestFindGatherEventsCollectsOnSegment(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 0.3)
	p.addItem(geom.Position{X: 5, Y: 0}, 0.0)

	events := FindGatherEvents(p)
	require.Len(t, events, 1)
	assert.InDelta(t, 0.5, events[0].Proj, 1e-9)
	assert.InDelta(t, 0.0, events[0].SqDistance, 1e-9)
}

func TestFindGatherEventsRejectsOutsideRadius(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 0.1)
	p.addItem(geom.Position{X: 5, Y: 1}, 0.0)

	events := FindGatherEvents(p)
	assert.Empty(t, events)
}

func TestFindGatherEventsRejectsOutsideProjRange(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 5)
	p.addItem(geom.Position{X: 20, Y: 0}, 0.0)

	events := FindGatherEvents(p)
	assert.Empty(t, events, "item beyond the end of the segment must not be collected even within radius")
}

func TestFindGatherEventsIncludesProjBoundaries(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 0.3)
	p.addItem(geom.Position{X: 0, Y: 0}, 0.0)  // proj == 0
	p.addItem(geom.Position{X: 10, Y: 0}, 0.0) // proj == 1

	events := FindGatherEvents(p)
	assert.Len(t, events, 2)
}

func TestFindGatherEventsSortedByProjThenIds(t *testing.T) {
	p := &sliceProvider{}
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 1)
	p.addGatherer(geom.Position{X: 0, Y: 0}, geom.Position{X: 10, Y: 0}, 1)
	p.addItem(geom.Position{X: 8, Y: 0}, 0.0)
	p.addItem(geom.Position{X: 2, Y: 0}, 0.0)

	events := FindGatherEvents(p)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Proj, events[i].Proj)
	}
}
