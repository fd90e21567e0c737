// Package app is the single serialization point for all mutable game state:
// every join, move command, tick, and retirement passes through Application,
// which holds one mutex guarding the whole aggregate. This generalizes the
// original's single-strand (boost::asio::strand) executor model into the
// simplest idiomatic Go equivalent for a single-process server: per-session
// locks are deliberately not used anywhere in this tree, because two
// sessions on the same map could otherwise observe each other's joins out of
// order during a FindOpenSession race.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Proger1298/gaming-server/internal/apperr"
	"github.com/Proger1298/gaming-server/internal/game"
	"github.com/Proger1298/gaming-server/internal/lootgen"
	"github.com/Proger1298/gaming-server/internal/model"
	"github.com/Proger1298/gaming-server/internal/session"
)

// leaderboardTimeout bounds how long a retirement write may block the
// strand; a slow database must never stall everyone else's tick.
const leaderboardTimeout = 3 * time.Second

// Application wires the map/session catalog, join tokens, and leaderboard
// persistence behind one mutex.
type Application struct {
	mu sync.Mutex

	game   *game.Game
	tokens *PlayerTokens

	players        map[int]*Player
	playerByDogID  map[int]*Player
	sessionPlayers map[int][]int // sessionID -> player IDs, join order

	nextPlayerID int

	lootGenerators map[int]*lootgen.Generator // sessionID -> generator

	leaderboard      Leaderboard
	strictRetirement bool

	logger *zap.Logger
}

// New constructs an Application over an already-populated Game (maps loaded,
// no sessions yet). leaderboard may be nil, in which case retirement never
// writes to persistent storage but still removes the player in memory.
func New(g *game.Game, leaderboard Leaderboard, logger *zap.Logger, strictRetirement bool, tokenSeed1, tokenSeed2 int64) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		game:             g,
		tokens:           NewPlayerTokens(tokenSeed1, tokenSeed2),
		players:          make(map[int]*Player),
		playerByDogID:    make(map[int]*Player),
		sessionPlayers:   make(map[int][]int),
		lootGenerators:   make(map[int]*lootgen.Generator),
		leaderboard:      leaderboard,
		strictRetirement: strictRetirement,
		logger:           logger,
	}
}

// Join admits a new player onto mapID, placing them into the first open
// session for that map or starting a new one, and returns their bearer
// token.
func (a *Application) Join(name, mapID string) (Token, *Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if name == "" {
		return "", nil, apperr.InvalidArgument("player name must not be empty")
	}
	m, ok := a.game.FindMap(mapID)
	if !ok {
		return "", nil, apperr.MapNotFound(fmt.Sprintf("map %q not found", mapID))
	}

	sess, ok := a.game.FindOpenSession(mapID)
	if !ok {
		var err error
		sess, err = a.game.CreateSession(mapID)
		if err != nil {
			return "", nil, apperr.InvalidArgument(err.Error())
		}
		a.lootGenerators[sess.ID] = lootgen.New(
			a.game.LootGeneratorConfig.PeriodMs,
			a.game.LootGeneratorConfig.Probability,
			a.game.NewSessionRNG(),
		)
	}

	dog, err := sess.CreateDog(a.game.NextDogID(), name)
	if err != nil {
		return "", nil, apperr.InvalidArgument(err.Error())
	}

	playerID := a.nextPlayerID
	a.nextPlayerID++

	player := &Player{ID: playerID, Name: name, SessionID: sess.ID, DogID: dog.ID}
	a.players[playerID] = player
	a.playerByDogID[dog.ID] = player
	a.sessionPlayers[sess.ID] = append(a.sessionPlayers[sess.ID], playerID)

	token := a.tokens.Add(playerID)

	a.logger.Info("player joined",
		zap.String("name", name),
		zap.String("map", m.ID),
		zap.Int("session", sess.ID),
		zap.Int("dog", dog.ID),
	)
	return token, player, nil
}

// Action applies a move command to the token's own dog.
func (a *Application) Action(token Token, move string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	dog, sess, err := a.lookupOwnDog(token)
	if err != nil {
		return err
	}
	switch move {
	case "U", "D", "L", "R", "":
	default:
		return apperr.InvalidArgument(fmt.Sprintf("invalid move direction %q", move))
	}
	dog.Move(move, sess.Map.DogSpeed)
	return nil
}

func (a *Application) lookupOwnDog(token Token) (*model.Dog, *session.Session, error) {
	playerID, ok := a.tokens.Find(token)
	if !ok {
		return nil, nil, apperr.UnknownToken("unknown token")
	}
	player := a.players[playerID]
	sess, ok := a.game.Session(player.SessionID)
	if !ok {
		return nil, nil, apperr.UnknownToken("player's session no longer exists")
	}
	dog, ok := sess.Dog(player.DogID)
	if !ok {
		return nil, nil, apperr.UnknownToken("player's dog no longer exists")
	}
	return dog, sess, nil
}

// GameState returns every dog and lost object in the token's own session.
func (a *Application) GameState(token Token) ([]DogView, []LostObjectView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, sess, err := a.lookupOwnDog(token)
	if err != nil {
		return nil, nil, err
	}

	dogs := sess.Dogs()
	players := make([]DogView, 0, len(dogs))
	for _, d := range dogs {
		v := dogView(d)
		if p, ok := a.playerByDogID[d.ID]; ok {
			v.PlayerID = p.ID
		}
		players = append(players, v)
	}

	lost := sess.LostObjects()
	ids := make([]int, 0, len(lost))
	for id := range lost {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	objects := make([]LostObjectView, 0, len(ids))
	for _, id := range ids {
		objects = append(objects, lostObjectView(lost[id]))
	}

	return players, objects, nil
}

// PlayersInSession returns every player sharing the token's own session, in
// join order.
func (a *Application) PlayersInSession(token Token) ([]PlayerView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	playerID, ok := a.tokens.Find(token)
	if !ok {
		return nil, apperr.UnknownToken("unknown token")
	}
	player := a.players[playerID]

	ids := a.sessionPlayers[player.SessionID]
	out := make([]PlayerView, 0, len(ids))
	for _, id := range ids {
		p, ok := a.players[id]
		if !ok {
			continue
		}
		out = append(out, PlayerView{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

// Maps returns every registered map, in registration order. Maps are
// immutable after config load, so no per-field copy is required here.
func (a *Application) Maps() []*model.Map {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game.Maps()
}

// Map looks up a single map by id.
func (a *Application) Map(id string) (*model.Map, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game.FindMap(id)
}

// SessionSummary is a read-only view of one session's dogs, for the
// spectator feed — narrower than GameState's lost-objects-included view
// since spectators never need bag contents.
type SessionSummary struct {
	ID    int
	MapID string
	Dogs  []DogView
}

// Sessions returns a summary of every running session, for the spectator
// broadcast that follows each Tick.
func (a *Application) Sessions() []SessionSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	sessions := a.game.AllSessions()
	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		dogs := sess.Dogs()
		views := make([]DogView, 0, len(dogs))
		for _, d := range dogs {
			views = append(views, dogView(d))
		}
		out = append(out, SessionSummary{ID: sess.ID, MapID: sess.Map.ID, Dogs: views})
	}
	return out
}

// Tick runs one orchestrated step across every running session: snapshot
// previous positions, advance movement, resolve gathers, retire anyone who
// has been idle past the threshold, then probabilistically spawn loot
// against the post-retirement dog count. Retirement must precede loot
// generation: the spawn cap is the session's current gatherer count, and a
// dog retiring this tick must not count toward it.
func (a *Application) Tick(deltaMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, sess := range a.game.AllSessions() {
		sess.SnapshotPrevPositions()
		sess.AdvanceDogs(deltaMs)
		sess.HandleCollisions()

		retired := sess.RemoveInactiveDogs(a.game.MaxInactivityTimeMs)
		for _, d := range retired {
			a.retireDog(sess, d)
		}

		if gen, ok := a.lootGenerators[sess.ID]; ok {
			spawned := gen.Spawn(deltaMs, len(sess.LostObjects()), len(sess.Dogs()))
			sess.GenerateLoot(spawned)
		}
	}
}

// retireDog writes a retirement record for d and removes its player binding.
// On a leaderboard write failure: under non-strict retirement (the default,
// matching the original's log-and-continue behavior) the player is still
// removed from memory; under strict retirement the dog is put back into its
// session so the write is retried on the next tick instead of losing the
// score.
func (a *Application) retireDog(sess *session.Session, d *model.Dog) {
	rec := RetiredPlayer{Name: d.Name, Score: d.Score, PlayTime: d.PlayTimeSeconds()}

	var err error
	if a.leaderboard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
		err = a.leaderboard.RetirePlayer(ctx, rec)
		cancel()
	}

	if err != nil {
		if a.strictRetirement {
			a.logger.Error("leaderboard write failed on retirement",
				zap.String("name", d.Name), zap.Error(err), zap.Bool("strict", true))
			sess.AddDog(d)
			return
		}
		a.logger.Warn("leaderboard write failed on retirement",
			zap.String("name", d.Name), zap.Error(err), zap.Bool("strict", false))
	}

	player, ok := a.playerByDogID[d.ID]
	if !ok {
		return
	}
	delete(a.players, player.ID)
	delete(a.playerByDogID, d.ID)
	a.tokens.Remove(player.ID)

	ids := a.sessionPlayers[sess.ID]
	for i, id := range ids {
		if id == player.ID {
			a.sessionPlayers[sess.ID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	a.logger.Info("player retired", zap.String("name", d.Name), zap.Int("score", d.Score))
}

// GetRecords delegates to the leaderboard, returning an empty slice if none
// is configured.
func (a *Application) GetRecords(ctx context.Context, start, maxItems int) ([]RetiredPlayer, error) {
	a.mu.Lock()
	lb := a.leaderboard
	a.mu.Unlock()

	if lb == nil {
		return nil, nil
	}
	return lb.TopPlayers(ctx, start, maxItems)
}

// CaptureState copies every piece of mutable state needed to exactly
// reconstruct the running game, for internal/snapshot to serialize.
func (a *Application) CaptureState() StateSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := StateSnapshot{
		Version:       CurrentSnapshotVersion,
		NextPlayerID:  a.nextPlayerID,
		NextSessionID: a.game.SessionIDCounter(),
		NextDogID:     a.game.DogIDCounter(),
	}

	for _, sess := range a.game.AllSessions() {
		ss := SessionSnapshot{ID: sess.ID, MapID: sess.Map.ID, NextLostObjectID: sess.NextLostObjectID()}

		for _, d := range sess.Dogs() {
			ss.Dogs = append(ss.Dogs, DogSnapshot{
				ID:                d.ID,
				Name:              d.Name,
				Position:          d.Position,
				PrevPosition:      d.PrevPosition,
				Speed:             d.Speed,
				Direction:         d.Direction,
				BagCapacity:       d.Bag.Capacity(),
				BagItems:          append([]model.LostObject(nil), d.Bag.Items()...),
				Score:             d.Score,
				TimeSinceJoin:     d.TimeSinceJoin,
				TimeSinceLastMove: d.TimeSinceLastMove,
			})
		}
		sort.Slice(ss.Dogs, func(i, j int) bool { return ss.Dogs[i].ID < ss.Dogs[j].ID })

		lost := sess.LostObjects()
		for _, lo := range lost {
			ss.LostObjects = append(ss.LostObjects, *lo)
		}
		sort.Slice(ss.LostObjects, func(i, j int) bool { return ss.LostObjects[i].ID < ss.LostObjects[j].ID })

		out.Sessions = append(out.Sessions, ss)
	}
	sort.Slice(out.Sessions, func(i, j int) bool { return out.Sessions[i].ID < out.Sessions[j].ID })

	for _, p := range a.players {
		tok, _ := a.tokens.TokenFor(p.ID)
		out.Players = append(out.Players, PlayerSnapshot{
			ID: p.ID, Name: p.Name, SessionID: p.SessionID, DogID: p.DogID, Token: string(tok),
		})
	}
	sort.Slice(out.Players, func(i, j int) bool { return out.Players[i].ID < out.Players[j].ID })

	return out
}

// RestoreState rebuilds every session, dog, lost object, player, and counter
// from a previously captured snapshot. Maps must already be loaded (from
// config) before this is called.
func (a *Application) RestoreState(s StateSnapshot) error {
	if s.Version != CurrentSnapshotVersion {
		return fmt.Errorf("app: snapshot version %d is not the supported version %d", s.Version, CurrentSnapshotVersion)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.game.SetSessionIDCounter(s.NextSessionID)
	a.game.SetDogIDCounter(s.NextDogID)
	a.nextPlayerID = s.NextPlayerID

	for _, ss := range s.Sessions {
		m, ok := a.game.FindMap(ss.MapID)
		if !ok {
			return fmt.Errorf("app: snapshot references unknown map %q", ss.MapID)
		}

		sess := session.New(ss.ID, m, a.game.NewSessionRNG())
		sess.SetNextLostObjectID(ss.NextLostObjectID)

		for _, lo := range ss.LostObjects {
			loCopy := lo
			sess.AddLostObject(&loCopy)
		}

		for _, ds := range ss.Dogs {
			d := model.NewDog(ds.ID, ds.Name, ds.Position, ds.BagCapacity)
			d.PrevPosition = ds.PrevPosition
			d.Speed = ds.Speed
			d.Direction = ds.Direction
			d.Score = ds.Score
			d.TimeSinceJoin = ds.TimeSinceJoin
			d.TimeSinceLastMove = ds.TimeSinceLastMove
			for _, item := range ds.BagItems {
				d.Bag.Add(item)
			}
			sess.AddDog(d)
		}

		if err := a.game.AddSession(sess); err != nil {
			return err
		}
		a.lootGenerators[sess.ID] = lootgen.New(
			a.game.LootGeneratorConfig.PeriodMs,
			a.game.LootGeneratorConfig.Probability,
			a.game.NewSessionRNG(),
		)
	}

	for _, ps := range s.Players {
		p := &Player{ID: ps.ID, Name: ps.Name, SessionID: ps.SessionID, DogID: ps.DogID}
		a.players[p.ID] = p
		a.playerByDogID[p.DogID] = p
		a.sessionPlayers[p.SessionID] = append(a.sessionPlayers[p.SessionID], p.ID)
		a.tokens.Set(Token(ps.Token), p.ID)
	}

	return nil
}
