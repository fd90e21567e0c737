package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/game"
	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

type fakeLeaderboard struct {
	mu      sync.Mutex
	records []RetiredPlayer
	failing bool
}

func (f *fakeLeaderboard) RetirePlayer(ctx context.Context, rec RetiredPlayer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return assert.AnError
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeLeaderboard) TopPlayers(ctx context.Context, start, maxItems int) ([]RetiredPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RetiredPlayer(nil), f.records...), nil
}

func testGame(t *testing.T) *game.Game {
	t.Helper()
	g := game.New(game.LootGeneratorConfig{PeriodMs: 1000, Probability: 0}, 200, 1)
	m := model.NewMap("m1", "One", 1.0, 3, false)
	m.AddRoad(model.NewHorizontalRoad(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}))
	m.AddOffice(model.Office{ID: "o1", Position: geom.Point{X: 5, Y: 0}})
	m.LootTypes = []model.LootType{{Value: 1}}
	require.NoError(t, g.AddMap(m))
	return g
}

func TestJoinThenAction(t *testing.T) {
	a := New(testGame(t), nil, nil, false, 1, 2)

	token, player, err := a.Join("Alice", "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", player.Name)

	require.NoError(t, a.Action(token, "R"))

	dogs, _, err := a.GameState(token)
	require.NoError(t, err)
	require.Len(t, dogs, 1)
	assert.Equal(t, "R", dogs[0].Direction)
}

func TestJoinUnknownMap(t *testing.T) {
	a := New(testGame(t), nil, nil, false, 1, 2)
	_, _, err := a.Join("Alice", "nope")
	require.Error(t, err)
}

func TestActionWithBadTokenFails(t *testing.T) {
	a := New(testGame(t), nil, nil, false, 1, 2)
	err := a.Action("deadbeef", "U")
	require.Error(t, err)
}

func TestTickRetiresInactivePlayerAndWritesLeaderboard(t *testing.T) {
	lb := &fakeLeaderboard{}
	a := New(testGame(t), lb, nil, false, 1, 2)

	token, _, err := a.Join("Alice", "m1")
	require.NoError(t, err)

	// Never move: TimeSinceLastMove accumulates every tick until the
	// inactivity threshold (200ms) is crossed.
	a.Tick(250)

	_, _, err = a.GameState(token)
	assert.Error(t, err, "retired player's token must no longer resolve")

	lb.mu.Lock()
	defer lb.mu.Unlock()
	require.Len(t, lb.records, 1)
	assert.Equal(t, "Alice", lb.records[0].Name)
}

func TestStrictRetirementKeepsPlayerOnLeaderboardFailure(t *testing.T) {
	lb := &fakeLeaderboard{failing: true}
	a := New(testGame(t), lb, nil, true, 1, 2)

	token, _, err := a.Join("Alice", "m1")
	require.NoError(t, err)

	a.Tick(250)

	_, _, err = a.GameState(token)
	assert.NoError(t, err, "strict retirement must keep the player until the write succeeds")
}

func TestRetirementExcludesRetiringDogFromLootCap(t *testing.T) {
	g := game.New(game.LootGeneratorConfig{PeriodMs: 50, Probability: 1}, 200, 1)
	m := model.NewMap("m1", "One", 1.0, 3, false)
	m.AddRoad(model.NewHorizontalRoad(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}))
	m.LootTypes = []model.LootType{{Value: 1}}
	require.NoError(t, g.AddMap(m))

	a := New(g, nil, nil, false, 1, 2)
	_, _, err := a.Join("Alice", "m1")
	require.NoError(t, err)

	// Never moves, so 250ms crosses the 200ms inactivity threshold and
	// retires its only dog. The one item generated at join time stays on
	// the map; the loot generator's 50ms period elapses five times over
	// with probability 1, but a session with 0 dogs must gain nothing more.
	a.Tick(250)

	snap := a.CaptureState()
	require.Len(t, snap.Sessions, 1)
	assert.Empty(t, snap.Sessions[0].Dogs, "the idle dog must have retired")
	assert.Len(t, snap.Sessions[0].LostObjects, 1, "only the join-time item; no loot may spawn once the session has no dogs")
}

func TestCaptureAndRestoreStateRoundTrips(t *testing.T) {
	a := New(testGame(t), nil, nil, false, 1, 2)
	token, _, err := a.Join("Alice", "m1")
	require.NoError(t, err)
	require.NoError(t, a.Action(token, "R"))
	a.Tick(500)

	snap := a.CaptureState()
	require.Len(t, snap.Sessions, 1)
	require.Len(t, snap.Players, 1)

	b := New(testGame(t), nil, nil, false, 9, 9)
	require.NoError(t, b.RestoreState(snap))

	dogs, _, err := b.GameState(token)
	require.NoError(t, err, "restored token must resolve against the new Application")
	require.Len(t, dogs, 1)
	assert.Equal(t, snap.Sessions[0].Dogs[0].Position, dogs[0].Position)
}
