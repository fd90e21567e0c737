package lootgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawnNeverExceedsGathererCount(t *testing.T) {
	g := New(1000, 1.0, rand.New(rand.NewSource(1)))

	spawned := g.Spawn(10000, 0, 3)
	assert.LessOrEqual(t, spawned, 3)
}

func TestSpawnZeroWhenNoGatherers(t *testing.T) {
	g := New(1000, 1.0, rand.New(rand.NewSource(1)))
	spawned := g.Spawn(10000, 0, 0)
	assert.Equal(t, 0, spawned)
}

func TestSpawnZeroProbabilityNeverSpawns(t *testing.T) {
	g := New(100, 0.0, rand.New(rand.NewSource(1)))
	spawned := g.Spawn(10000, 0, 5)
	assert.Equal(t, 0, spawned)
}

func TestSpawnRespectsExistingLostCount(t *testing.T) {
	g := New(100, 1.0, rand.New(rand.NewSource(1)))
	spawned := g.Spawn(10000, 5, 5)
	assert.Equal(t, 0, spawned, "already at gatherer count cap, nothing new should spawn")
}

func TestSpawnAccumulatesPartialPeriods(t *testing.T) {
	g := New(1000, 1.0, rand.New(rand.NewSource(1)))
	first := g.Spawn(600, 0, 10)
	assert.Equal(t, 0, first, "under one full period, no decision yet")
	second := g.Spawn(600, 0, 10)
	assert.Equal(t, 1, second, "accumulated past one full period, exactly one decision made")
}
