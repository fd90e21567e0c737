// Package lootgen decides how many new loot items a session should spawn on
// a given tick. It does not construct the items themselves — that remains
// session.Session.GenerateLoot's job, since only the session knows its map's
// catalog and road graph.
package lootgen

import "math/rand"

// Generator accumulates elapsed time against a fixed period and decides,
// independently per elapsed period, whether to spawn one item, capped so the
// total lost-object count on a session never exceeds its gatherer count.
//
// The original repository's LootGenerator::Generate was never retrieved
// verbatim; this implementation follows the documented accumulate-and-
// Bernoulli-decide behavior rather than a reconstructed original algorithm.
type Generator struct {
	periodMs    float64
	probability float64
	elapsedMs   float64
	rng         *rand.Rand
}

// New constructs a Generator. rng must not be shared across sessions.
func New(periodMs float64, probability float64, rng *rand.Rand) *Generator {
	return &Generator{periodMs: periodMs, probability: probability, rng: rng}
}

// Spawn advances the generator's internal clock by deltaMs and returns how
// many new items should be spawned this tick, given the session's current
// lost-object count and gatherer (dog) count.
func (g *Generator) Spawn(deltaMs float64, lostCount, gathererCount int) int {
	g.elapsedMs += deltaMs

	spawn := 0
	for g.elapsedMs >= g.periodMs && lostCount+spawn < gathererCount {
		g.elapsedMs -= g.periodMs
		if g.rng.Float64() < g.probability {
			spawn++
		}
	}
	return spawn
}
