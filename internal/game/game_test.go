package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/model"
	"github.com/Proger1298/gaming-server/internal/session"
)

func TestAddMapRejectsDuplicateID(t *testing.T) {
	g := New(LootGeneratorConfig{PeriodMs: 1000, Probability: 0.5}, 60000, 1)
	m1 := model.NewMap("m1", "One", 1, 3, false)
	m2 := model.NewMap("m1", "Two", 1, 3, false)

	require.NoError(t, g.AddMap(m1))
	assert.Error(t, g.AddMap(m2))
}

func TestCreateSessionThenFindOpenSession(t *testing.T) {
	g := New(LootGeneratorConfig{}, 60000, 1)
	m := model.NewMap("m1", "One", 1, 3, false)
	require.NoError(t, g.AddMap(m))

	s, err := g.CreateSession("m1")
	require.NoError(t, err)

	found, ok := g.FindOpenSession("m1")
	require.True(t, ok)
	assert.Equal(t, s.ID, found.ID)
}

func TestFindOpenSessionSkipsFullSessions(t *testing.T) {
	g := New(LootGeneratorConfig{}, 60000, 1)
	m := model.NewMap("m1", "One", 1, 3, false)
	require.NoError(t, g.AddMap(m))

	s, err := g.CreateSession("m1")
	require.NoError(t, err)
	for i := 0; i < session.MaxDogs; i++ {
		d, err := s.CreateDog(g.NextDogID(), "d")
		require.NoError(t, err)
		_ = d
	}

	_, ok := g.FindOpenSession("m1")
	assert.False(t, ok, "a full session must never be returned")
}

func TestSessionIDsAreMonotonicAndUnique(t *testing.T) {
	g := New(LootGeneratorConfig{}, 60000, 1)
	m := model.NewMap("m1", "One", 1, 3, false)
	require.NoError(t, g.AddMap(m))

	s1, err := g.CreateSession("m1")
	require.NoError(t, err)
	s2, err := g.CreateSession("m1")
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
}
