package app

import (
	"context"

	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

// Player binds one joined client to its session and dog. Player state itself
// carries no gameplay data — that lives on the Dog it points at — so Player
// is cheap to keep around even across many sessions.
type Player struct {
	ID        int
	Name      string
	SessionID int
	DogID     int
}

// RetiredPlayer is the record written to the leaderboard when a player is
// retired for inactivity.
type RetiredPlayer struct {
	Name     string
	Score    int
	PlayTime float64 // seconds
}

// Leaderboard is the persistence boundary Application depends on; internal/store
// supplies the Postgres-backed implementation. Defining it here (rather than
// importing internal/store) keeps Application ignorant of the storage engine,
// the same separation the original draws between GameSession/Application and
// its Database use-case interfaces.
type Leaderboard interface {
	RetirePlayer(ctx context.Context, rec RetiredPlayer) error
	TopPlayers(ctx context.Context, start, maxItems int) ([]RetiredPlayer, error)
}

// DogView is the read-only projection of a Dog served over HTTP: no bag
// pointer, no internal timers, direction already rendered as its wire letter.
type DogView struct {
	ID        int
	PlayerID  int
	Name      string
	Position  geom.Position
	Speed     geom.Speed
	Direction string
	BagItems  []model.LostObject
	Score     int
}

func dogView(d *model.Dog) DogView {
	return DogView{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Position,
		Speed:     d.Speed,
		Direction: d.Direction.String(),
		BagItems:  append([]model.LostObject(nil), d.Bag.Items()...),
		Score:     d.Score,
	}
}

// LostObjectView is the read-only projection of a lost object served over HTTP.
type LostObjectView struct {
	ID       int
	Type     int
	Position geom.Position
}

func lostObjectView(lo *model.LostObject) LostObjectView {
	return LostObjectView{ID: lo.ID, Type: lo.Type, Position: lo.Position}
}

// PlayerView is the read-only projection of a Player served over HTTP.
type PlayerView struct {
	ID   int
	Name string
}

// DogSnapshot, SessionSnapshot, PlayerSnapshot, and StateSnapshot are the data
// a Source's CaptureState/RestoreState pass to internal/snapshot — enough to
// exactly rebuild every session, dog, lost object, player, and counter. Map
// definitions are never part of it: maps are loaded fresh from the config
// file on every startup, never mutated afterward, and so never need to
// round-trip through the state file.
type DogSnapshot struct {
	ID                int
	Name              string
	Position          geom.Position
	PrevPosition      geom.Position
	Speed             geom.Speed
	Direction         model.Direction
	BagCapacity       int
	BagItems          []model.LostObject
	Score             int
	TimeSinceJoin     float64
	TimeSinceLastMove float64
}

type SessionSnapshot struct {
	ID               int
	MapID            string
	Dogs             []DogSnapshot
	LostObjects      []model.LostObject
	NextLostObjectID int
}

type PlayerSnapshot struct {
	ID        int
	Name      string
	SessionID int
	DogID     int
	Token     string
}

// CurrentSnapshotVersion is written into every StateSnapshot on capture.
// internal/snapshot.Load rejects a file whose Version doesn't match, rather
// than risk misinterpreting a shape from a prior release.
const CurrentSnapshotVersion = 1

type StateSnapshot struct {
	Version       int
	Sessions      []SessionSnapshot
	Players       []PlayerSnapshot
	NextPlayerID  int
	NextSessionID int
	NextDogID     int
}
