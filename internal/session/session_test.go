package session

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

func testMap(t *testing.T) *model.Map {
	t.Helper()
	m := model.NewMap("map1", "Test", 2.0, 3, false)
	m.AddRoad(model.NewHorizontalRoad(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}))
	require.NoError(t, m.AddOffice(model.Office{ID: "o1", Position: geom.Point{X: 8, Y: 0}}))
	m.LootTypes = []model.LootType{{Raw: json.RawMessage(`{}`), Value: 7}}
	return m
}

func TestSessionCollectThenDeposit(t *testing.T) {
	m := testMap(t)
	s := New(1, m, rand.New(rand.NewSource(1)))

	dog := model.NewDog(1, "rex", geom.Position{X: 4.0, Y: 0}, 3)
	s.AddDog(dog)
	s.AddLostObject(&model.LostObject{ID: 0, Type: 0, Position: geom.Position{X: 5.0, Y: 0}, Value: 7})

	dog.Move("R", m.DogSpeed) // speed 2.0
	s.SnapshotPrevPositions()
	s.AdvanceDogs(1000)
	s.HandleCollisions()

	require.Equal(t, 1, dog.Bag.Size())
	assert.Equal(t, 7, dog.Bag.Items()[0].Value)
	assert.Equal(t, 0, dog.Score)
	assert.Empty(t, s.LostObjects())

	// Second tick: advance to the office and deposit.
	dog.Move("R", m.DogSpeed)
	s.SnapshotPrevPositions()
	s.AdvanceDogs(1000)
	s.HandleCollisions()

	assert.Equal(t, 0, dog.Bag.Size())
	assert.Equal(t, 7, dog.Score)
}

func TestGenerateLootCreatesRequestedCount(t *testing.T) {
	m := testMap(t)
	s := New(1, m, rand.New(rand.NewSource(1)))
	s.AddDog(model.NewDog(1, "rex", geom.Position{}, 3))

	s.GenerateLoot(1)
	assert.Len(t, s.LostObjects(), 1)
}

func TestRemoveInactiveDogs(t *testing.T) {
	m := testMap(t)
	s := New(1, m, rand.New(rand.NewSource(1)))
	d1 := model.NewDog(1, "idle", geom.Position{}, 3)
	d1.TimeSinceLastMove = 5000
	d2 := model.NewDog(2, "active", geom.Position{}, 3)
	d2.Speed = geom.Speed{X: 1}
	s.AddDog(d1)
	s.AddDog(d2)

	removed := s.RemoveInactiveDogs(1000)
	require.Len(t, removed, 1)
	assert.Equal(t, 1, removed[0].ID)
	assert.Len(t, s.Dogs(), 1)
	assert.Equal(t, 2, s.Dogs()[0].ID)
}

func TestSessionFullness(t *testing.T) {
	m := testMap(t)
	s := New(1, m, rand.New(rand.NewSource(1)))
	for i := 0; i < MaxDogs; i++ {
		s.AddDog(model.NewDog(i, "d", geom.Position{}, 3))
	}
	assert.True(t, s.IsFull())

	_, err := s.CreateDog(99, "overflow")
	assert.Error(t, err)
}
