package model

import (
	"fmt"
	"math/rand"

	"github.com/Proger1298/gaming-server/internal/geom"
)

// Map is one static game map: its roads, buildings, offices, and per-map
// gameplay parameters (dog speed, bag capacity, loot catalog).
type Map struct {
	ID   string
	Name string

	roads     []*Road
	buildings []Building
	offices   []Office
	officeIDs map[string]struct{}

	pointToRoads map[geom.Point][]*Road

	DogSpeed             float64
	BagCapacity          int
	RandomizeSpawnPoints bool
	LootTypes            []LootType
}

// NewMap constructs an empty map ready to receive roads/buildings/offices.
func NewMap(id, name string, dogSpeed float64, bagCapacity int, randomizeSpawnPoints bool) *Map {
	return &Map{
		ID:                   id,
		Name:                 name,
		officeIDs:            make(map[string]struct{}),
		pointToRoads:         make(map[geom.Point][]*Road),
		DogSpeed:             dogSpeed,
		BagCapacity:          bagCapacity,
		RandomizeSpawnPoints: randomizeSpawnPoints,
	}
}

// AddRoad appends a road and indexes every integer lattice point it covers
// into the PointToRoadSegments structure used by dog movement.
func (m *Map) AddRoad(r Road) {
	stored := &r
	m.roads = append(m.roads, stored)

	if r.IsHorizontal() {
		x1, x2 := r.Start.X, r.End.X
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			p := geom.Point{X: x, Y: r.Start.Y}
			m.pointToRoads[p] = append(m.pointToRoads[p], stored)
		}
	} else {
		y1, y2 := r.Start.Y, r.End.Y
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			p := geom.Point{X: r.Start.X, Y: y}
			m.pointToRoads[p] = append(m.pointToRoads[p], stored)
		}
	}
}

// AddBuilding appends a visual-only building.
func (m *Map) AddBuilding(b Building) {
	m.buildings = append(m.buildings, b)
}

// AddOffice appends an office, returning an error if its id collides with an
// already-registered office on this map.
func (m *Map) AddOffice(o Office) error {
	if _, exists := m.officeIDs[o.ID]; exists {
		return fmt.Errorf("model: duplicate office id %q on map %q", o.ID, m.ID)
	}
	m.officeIDs[o.ID] = struct{}{}
	m.offices = append(m.offices, o)
	return nil
}

// Roads returns every road on the map, in insertion order.
func (m *Map) Roads() []*Road { return m.roads }

// Buildings returns every building on the map, in insertion order.
func (m *Map) Buildings() []Building { return m.buildings }

// Offices returns every office on the map, in insertion order.
func (m *Map) Offices() []Office { return m.offices }

// RoadsAt returns the roads sharing the given integer lattice point, used by
// Dog movement to find the roads constraining its next move.
func (m *Map) RoadsAt(p geom.Point) []*Road {
	return m.pointToRoads[p]
}

// GetStartPointOnFirstRoad returns the starting position used for
// non-randomized spawns: the start of the first road added to the map.
func (m *Map) GetStartPointOnFirstRoad() geom.Position {
	if len(m.roads) == 0 {
		return geom.Position{}
	}
	r := m.roads[0]
	return geom.Position{X: float64(r.Start.X), Y: float64(r.Start.Y)}
}

// GetRandomPositionOnRandomRoad picks a uniformly random road, then a
// uniformly random integer point along its extent, mirroring the original's
// GetRandomPositionOnRandomRoad.
func (m *Map) GetRandomPositionOnRandomRoad(rng *rand.Rand) geom.Position {
	if len(m.roads) == 0 {
		return geom.Position{}
	}
	r := m.roads[rng.Intn(len(m.roads))]

	if r.IsHorizontal() {
		x1, x2 := r.Start.X, r.End.X
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		x := x1 + rng.Intn(x2-x1+1)
		return geom.Position{X: float64(x), Y: float64(r.Start.Y)}
	}

	y1, y2 := r.Start.Y, r.End.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	y := y1 + rng.Intn(y2-y1+1)
	return geom.Position{X: float64(r.Start.X), Y: float64(y)}
}

// SpawnPosition returns the position a newly joined dog should start at,
// honoring the map's RandomizeSpawnPoints flag.
func (m *Map) SpawnPosition(rng *rand.Rand) geom.Position {
	if m.RandomizeSpawnPoints {
		return m.GetRandomPositionOnRandomRoad(rng)
	}
	return m.GetStartPointOnFirstRoad()
}

// LootTypeValue returns the catalog value for a loot type index, and whether
// that type exists on this map.
func (m *Map) LootTypeValue(lootType int) (int, bool) {
	if lootType < 0 || lootType >= len(m.LootTypes) {
		return 0, false
	}
	return m.LootTypes[lootType].Value, true
}

// LootTypesCount returns the number of distinct loot types available on this
// map, used to pick a uniformly random type when spawning.
func (m *Map) LootTypesCount() int {
	return len(m.LootTypes)
}
