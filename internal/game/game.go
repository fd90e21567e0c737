// Package game is the top-level catalog: maps, the sessions running on each
// map, the loot-generator defaults, and the inactivity threshold. It owns
// the two global monotonic id counters (session, dog) as part of world
// state, since both counters are process-wide mutable state that must
// persist across a snapshot save/restore.
package game

import (
	"fmt"
	"math/rand"

	"github.com/Proger1298/gaming-server/internal/model"
	"github.com/Proger1298/gaming-server/internal/session"
)

// LootGeneratorConfig mirrors the config file's lootGeneratorConfig block,
// already normalized to milliseconds.
type LootGeneratorConfig struct {
	PeriodMs    float64
	Probability float64
}

// Game is the process-wide registry of maps and running sessions.
type Game struct {
	maps     map[string]*model.Map
	mapOrder []string

	sessionsByMap map[string][]*session.Session
	sessionByID   map[int]*session.Session

	nextSessionID int
	nextDogID     int

	LootGeneratorConfig LootGeneratorConfig
	MaxInactivityTimeMs float64

	sessionSeed *rand.Rand
}

// New constructs an empty Game. seed drives the per-session RNG seeding so
// that an entire run is reproducible from one injected seed.
func New(lootCfg LootGeneratorConfig, maxInactivityMs float64, seed int64) *Game {
	return &Game{
		maps:                make(map[string]*model.Map),
		sessionsByMap:       make(map[string][]*session.Session),
		sessionByID:         make(map[int]*session.Session),
		LootGeneratorConfig: lootCfg,
		MaxInactivityTimeMs: maxInactivityMs,
		sessionSeed:         rand.New(rand.NewSource(seed)),
	}
}

// AddMap registers a map, returning an error if its id is already taken.
func (g *Game) AddMap(m *model.Map) error {
	if _, exists := g.maps[m.ID]; exists {
		return fmt.Errorf("game: duplicate map id %q", m.ID)
	}
	g.maps[m.ID] = m
	g.mapOrder = append(g.mapOrder, m.ID)
	return nil
}

// FindMap looks up a map by id.
func (g *Game) FindMap(id string) (*model.Map, bool) {
	m, ok := g.maps[id]
	return m, ok
}

// Maps returns every registered map, in registration order.
func (g *Game) Maps() []*model.Map {
	out := make([]*model.Map, 0, len(g.mapOrder))
	for _, id := range g.mapOrder {
		out = append(out, g.maps[id])
	}
	return out
}

// FindOpenSession returns the first non-full session for mapID, if any.
func (g *Game) FindOpenSession(mapID string) (*session.Session, bool) {
	for _, s := range g.sessionsByMap[mapID] {
		if !s.IsFull() {
			return s, true
		}
	}
	return nil, false
}

// NewSessionRNG mints a fresh, independent RNG for a new session, seeded
// from the Game's own seed stream so the whole run stays reproducible.
func (g *Game) NewSessionRNG() *rand.Rand {
	return rand.New(rand.NewSource(g.sessionSeed.Int63()))
}

// CreateSession allocates a new session id, constructs a session for mapID,
// and registers it.
func (g *Game) CreateSession(mapID string) (*session.Session, error) {
	m, ok := g.FindMap(mapID)
	if !ok {
		return nil, fmt.Errorf("game: unknown map id %q", mapID)
	}

	id := g.nextSessionID
	g.nextSessionID++

	s := session.New(id, m, g.NewSessionRNG())
	if err := g.AddSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddSession registers an already-constructed session (used both by
// CreateSession and by snapshot restoration, which must preserve the
// session's original id and map binding).
func (g *Game) AddSession(s *session.Session) error {
	if _, exists := g.sessionByID[s.ID]; exists {
		return fmt.Errorf("game: duplicate session id %d", s.ID)
	}
	g.sessionByID[s.ID] = s
	g.sessionsByMap[s.Map.ID] = append(g.sessionsByMap[s.Map.ID], s)
	if s.ID >= g.nextSessionID {
		g.nextSessionID = s.ID + 1
	}
	return nil
}

// Session looks up a session by id.
func (g *Game) Session(id int) (*session.Session, bool) {
	s, ok := g.sessionByID[id]
	return s, ok
}

// AllSessions returns every session across every map.
func (g *Game) AllSessions() []*session.Session {
	out := make([]*session.Session, 0, len(g.sessionByID))
	for _, mapID := range g.mapOrder {
		out = append(out, g.sessionsByMap[mapID]...)
	}
	return out
}

// NextDogID allocates the next global monotonic dog id.
func (g *Game) NextDogID() int {
	id := g.nextDogID
	g.nextDogID++
	return id
}

// SetDogIDCounter restores the dog id counter explicitly, used by snapshot
// load so newly created dogs never collide with restored ids.
func (g *Game) SetDogIDCounter(next int) {
	if next > g.nextDogID {
		g.nextDogID = next
	}
}

// SetSessionIDCounter restores the session id counter explicitly.
func (g *Game) SetSessionIDCounter(next int) {
	if next > g.nextSessionID {
		g.nextSessionID = next
	}
}

// DogIDCounter returns the counter's current value, for snapshotting.
func (g *Game) DogIDCounter() int { return g.nextDogID }

// SessionIDCounter returns the counter's current value, for snapshotting.
func (g *Game) SessionIDCounter() int { return g.nextSessionID }
