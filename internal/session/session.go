// Package session implements one running instance of a map: its dogs, its
// lost objects, and the per-tick gather/loot steps. A Session is never
// accessed concurrently by design — the caller (internal/app.Application)
// serializes every operation onto its single strand, so Session itself
// holds no lock of its own.
package session

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Proger1298/gaming-server/internal/collision"
	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

// MaxDogs is the maximum number of dogs a single session may host.
const MaxDogs = 5

// Session is a map instance hosting up to MaxDogs dogs and a set of lost
// objects, with its own monotonic lost-object id counter and its own RNG
// (never shared across sessions).
type Session struct {
	ID  int
	Map *model.Map

	dogs    []*model.Dog
	dogByID map[int]*model.Dog

	lostObjects      map[int]*model.LostObject
	nextLostObjectID int

	rng *rand.Rand
}

// New constructs an empty session for the given map. rng must not be shared
// with any other session.
func New(id int, m *model.Map, rng *rand.Rand) *Session {
	return &Session{
		ID:          id,
		Map:         m,
		dogByID:     make(map[int]*model.Dog),
		lostObjects: make(map[int]*model.LostObject),
		rng:         rng,
	}
}

// IsFull reports whether the session already hosts MaxDogs dogs.
func (s *Session) IsFull() bool {
	return len(s.dogs) >= MaxDogs
}

// Dogs returns every dog currently in the session, in join order.
func (s *Session) Dogs() []*model.Dog {
	return s.dogs
}

// Dog looks up a dog by id.
func (s *Session) Dog(id int) (*model.Dog, bool) {
	d, ok := s.dogByID[id]
	return d, ok
}

// LostObjects returns the session's current lost objects keyed by id.
func (s *Session) LostObjects() map[int]*model.LostObject {
	return s.lostObjects
}

// CreateDog adds a new dog to the session at the map's configured spawn
// position, with the map's bag capacity, and immediately generates exactly
// one loot item (independent of the probabilistic generator), mirroring
// GameSession::CreateDog + the join-time spawn in the original.
func (s *Session) CreateDog(nextDogID int, name string) (*model.Dog, error) {
	if s.IsFull() {
		return nil, fmt.Errorf("session: session %d is full", s.ID)
	}

	pos := s.Map.SpawnPosition(s.rng)
	d := model.NewDog(nextDogID, name, pos, s.Map.BagCapacity)
	s.AddDog(d)
	s.GenerateLoot(1)
	return d, nil
}

// AddDog registers an already-constructed dog (used both by CreateDog and
// by snapshot restoration, which must preserve the dog's original id).
func (s *Session) AddDog(d *model.Dog) {
	s.dogs = append(s.dogs, d)
	s.dogByID[d.ID] = d
}

// RemoveDog removes a dog from the session by id.
func (s *Session) RemoveDog(id int) (*model.Dog, bool) {
	d, ok := s.dogByID[id]
	if !ok {
		return nil, false
	}
	delete(s.dogByID, id)
	for i, dog := range s.dogs {
		if dog.ID == id {
			s.dogs = append(s.dogs[:i], s.dogs[i+1:]...)
			break
		}
	}
	return d, true
}

// RemoveInactiveDogs removes every dog whose idle time has reached
// thresholdMs and returns them, for the caller to retire.
func (s *Session) RemoveInactiveDogs(thresholdMs float64) []*model.Dog {
	var removed []*model.Dog
	var kept []*model.Dog

	for _, d := range s.dogs {
		if d.IsInactive(thresholdMs) {
			removed = append(removed, d)
			delete(s.dogByID, d.ID)
		} else {
			kept = append(kept, d)
		}
	}
	s.dogs = kept
	return removed
}

// AddLostObject registers an already-constructed lost object (snapshot
// restoration path) and advances the session's id counter past it so newly
// generated items never collide with a restored id.
func (s *Session) AddLostObject(lo *model.LostObject) {
	s.lostObjects[lo.ID] = lo
	if lo.ID >= s.nextLostObjectID {
		s.nextLostObjectID = lo.ID + 1
	}
}

// SetNextLostObjectID restores the session's monotonic counter explicitly
// (used by snapshot load when the captured counter is authoritative even if
// no lost object currently carries that value).
func (s *Session) SetNextLostObjectID(next int) {
	s.nextLostObjectID = next
}

// NextLostObjectID returns the counter's current value, for snapshotting.
func (s *Session) NextLostObjectID() int {
	return s.nextLostObjectID
}

// GenerateLoot creates count new lost objects: a uniform random type from
// the map's catalog, a uniform random position on a uniform random road, a
// monotonic id from this session's own counter, and the catalog value for
// the chosen type.
func (s *Session) GenerateLoot(count int) {
	typesCount := s.Map.LootTypesCount()
	if typesCount == 0 {
		return
	}
	for i := 0; i < count; i++ {
		lootType := s.rng.Intn(typesCount)
		value, _ := s.Map.LootTypeValue(lootType)
		pos := s.Map.GetRandomPositionOnRandomRoad(s.rng)

		id := s.nextLostObjectID
		s.nextLostObjectID++

		s.lostObjects[id] = &model.LostObject{
			ID:       id,
			Type:     lootType,
			Position: pos,
			Value:    value,
		}
	}
}

// SnapshotPrevPositions records every dog's current position as its
// previous position, taken once at the start of each tick before any dog
// moves (step 1 of the Tick Orchestrator).
func (s *Session) SnapshotPrevPositions() {
	for _, d := range s.dogs {
		d.PrevPosition = d.Position
	}
}

// AdvanceDogs advances every dog's movement by deltaMs (step 2 of the Tick
// Orchestrator).
func (s *Session) AdvanceDogs(deltaMs float64) {
	for _, d := range s.dogs {
		d.AdvanceByTick(s.Map, deltaMs)
	}
}

// HandleCollisions runs one tick's gather pass: dogs moving from their
// previous to current position against lost objects and offices, processing
// events in the detector's returned order, then purging collected objects.
func (s *Session) HandleCollisions() {
	provider := s.newProvider()
	events := collision.FindGatherEvents(provider)

	for _, ev := range events {
		dog := provider.dogs[ev.GathererIndex]

		if ev.ItemIndex < len(provider.lostObjectIDs) {
			lo := s.lostObjects[provider.lostObjectIDs[ev.ItemIndex]]
			if lo.Collected || dog.Bag.IsFull() {
				continue
			}
			lo.Collected = true
			dog.Bag.Add(*lo)
			continue
		}

		// Office: bank the bag's value into score and empty it.
		dog.Score += dog.Bag.ValueSum()
		dog.Bag.Clear()
	}

	s.removeCollectedObjects()
}

func (s *Session) removeCollectedObjects() {
	for id, lo := range s.lostObjects {
		if lo.Collected {
			delete(s.lostObjects, id)
		}
	}
}

// gatherProvider adapts a Session's dogs, lost objects, and offices into a
// collision.Provider: lost objects first (in ascending id order, the
// deterministic tie-break the original's "arbitrary but deterministic"
// unordered_map iteration only promises informally), then offices in
// insertion order.
type gatherProvider struct {
	dogs           []*model.Dog
	lostObjectIDs  []int
	lostObjects    map[int]*model.LostObject
	offices        []model.Office
}

func (s *Session) newProvider() *gatherProvider {
	ids := make([]int, 0, len(s.lostObjects))
	for id := range s.lostObjects {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return &gatherProvider{
		dogs:          s.dogs,
		lostObjectIDs: ids,
		lostObjects:   s.lostObjects,
		offices:       s.Map.Offices(),
	}
}

func (p *gatherProvider) GatherersCount() int { return len(p.dogs) }

func (p *gatherProvider) Gatherer(i int) collision.Gatherer {
	d := p.dogs[i]
	return collision.Gatherer{
		Start:     d.PrevPosition,
		End:       d.Position,
		HalfWidth: model.GathererHalfWidth,
	}
}

func (p *gatherProvider) ItemsCount() int {
	return len(p.lostObjectIDs) + len(p.offices)
}

func (p *gatherProvider) Item(i int) collision.Item {
	if i < len(p.lostObjectIDs) {
		lo := p.lostObjects[p.lostObjectIDs[i]]
		return collision.Item{Position: lo.Position, HalfWidth: 0.0}
	}
	o := p.offices[i-len(p.lostObjectIDs)]
	return collision.Item{
		Position:  geom.Position{X: float64(o.Position.X), Y: float64(o.Position.Y)},
		HalfWidth: model.OfficeHalfWidth,
	}
}
