// Package config loads the JSON map/game configuration file into a *game.Game
// ready to serve joins, generalizing the original's json_loader.cpp schema
// (maps[], defaultDogSpeed, defaultBagCapacity, lootGeneratorConfig,
// dogRetirementTime) into a load-validate-construct pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Proger1298/gaming-server/internal/game"
	"github.com/Proger1298/gaming-server/internal/geom"
	"github.com/Proger1298/gaming-server/internal/model"
)

// Defaults mirror json_loader.h's DOG_SPEED_BY_DEFAULT / BAG_CAPACITY_BY_DEFAULT
// / DEFAULT_RETIREMENT_TIME_SEC.
const (
	DefaultDogSpeed       = 1.0
	DefaultBagCapacity    = 3
	DefaultRetirementSec  = 60.0
	secondsToMilliseconds = 1000
)

type rawRoad struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

type rawBuilding struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type rawOffice struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type rawLootTypeValue struct {
	Value int `json:"value"`
}

type rawMap struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DogSpeed    *float64          `json:"dogSpeed,omitempty"`
	BagCapacity *int              `json:"bagCapacity,omitempty"`
	LootTypes   []json.RawMessage `json:"lootTypes"`
	Roads       []rawRoad         `json:"roads"`
	Buildings   []rawBuilding     `json:"buildings"`
	Offices     []rawOffice       `json:"offices"`
}

type rawLootGeneratorConfig struct {
	Period      *float64 `json:"period"`
	Probability *float64 `json:"probability"`
}

type rawDocument struct {
	Maps                []rawMap                `json:"maps"`
	DefaultDogSpeed     *float64                 `json:"defaultDogSpeed,omitempty"`
	DefaultBagCapacity  *int                     `json:"defaultBagCapacity,omitempty"`
	LootGeneratorConfig *rawLootGeneratorConfig  `json:"lootGeneratorConfig"`
	DogRetirementTime   *float64                 `json:"dogRetirementTime,omitempty"`
}

// Loaded is everything a fresh Game needs: the maps themselves plus the
// process-wide loot-generator and inactivity settings.
type Loaded struct {
	Maps                []*model.Map
	LootGeneratorConfig game.LootGeneratorConfig
	MaxInactivityTimeMs float64
}

// Load reads and parses the config file at path. randomizeSpawnPoints is
// applied to every map (it is a server-wide CLI flag, not a per-map field).
//
// defaultDogSpeed and defaultBagCapacity are each applied independently here,
// rather than one silently overwriting the other's fallback the way
// json_loader.cpp's AddMapsToTheGame branch did.
func Load(path string, randomizeSpawnPoints bool) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if doc.LootGeneratorConfig == nil {
		return nil, fmt.Errorf("config: %s: missing required field 'lootGeneratorConfig'", path)
	}
	if doc.LootGeneratorConfig.Period == nil || doc.LootGeneratorConfig.Probability == nil {
		return nil, fmt.Errorf("config: %s: 'lootGeneratorConfig' missing required field 'period' or 'probability'", path)
	}

	defaultDogSpeed := DefaultDogSpeed
	if doc.DefaultDogSpeed != nil {
		defaultDogSpeed = *doc.DefaultDogSpeed
	}
	defaultBagCapacity := DefaultBagCapacity
	if doc.DefaultBagCapacity != nil {
		defaultBagCapacity = *doc.DefaultBagCapacity
	}

	retirementSec := DefaultRetirementSec
	if doc.DogRetirementTime != nil {
		retirementSec = *doc.DogRetirementTime
	}

	loaded := &Loaded{
		LootGeneratorConfig: game.LootGeneratorConfig{
			PeriodMs:    *doc.LootGeneratorConfig.Period * secondsToMilliseconds,
			Probability: *doc.LootGeneratorConfig.Probability,
		},
		MaxInactivityTimeMs: retirementSec * secondsToMilliseconds,
	}

	seen := make(map[string]struct{}, len(doc.Maps))
	for _, rm := range doc.Maps {
		if rm.ID == "" {
			return nil, fmt.Errorf("config: %s: map entry missing required field 'id'", path)
		}
		if _, dup := seen[rm.ID]; dup {
			return nil, fmt.Errorf("config: %s: duplicate map id %q", path, rm.ID)
		}
		seen[rm.ID] = struct{}{}

		if len(rm.LootTypes) == 0 {
			return nil, fmt.Errorf("config: %s: map %q does not contain 'lootTypes'", path, rm.ID)
		}

		dogSpeed := defaultDogSpeed
		if rm.DogSpeed != nil {
			dogSpeed = *rm.DogSpeed
		}
		bagCapacity := defaultBagCapacity
		if rm.BagCapacity != nil {
			bagCapacity = *rm.BagCapacity
		}

		m := model.NewMap(rm.ID, rm.Name, dogSpeed, bagCapacity, randomizeSpawnPoints)

		for _, lt := range rm.LootTypes {
			var v rawLootTypeValue
			if err := json.Unmarshal(lt, &v); err != nil {
				return nil, fmt.Errorf("config: %s: map %q: invalid loot type: %w", path, rm.ID, err)
			}
			m.LootTypes = append(m.LootTypes, model.LootType{Raw: lt, Value: v.Value})
		}

		for _, r := range rm.Roads {
			start := geom.Point{X: r.X0, Y: r.Y0}
			switch {
			case r.X1 != nil:
				m.AddRoad(model.NewHorizontalRoad(start, geom.Point{X: *r.X1, Y: r.Y0}))
			case r.Y1 != nil:
				m.AddRoad(model.NewVerticalRoad(start, geom.Point{X: r.X0, Y: *r.Y1}))
			default:
				return nil, fmt.Errorf("config: %s: map %q: road missing both 'x1' and 'y1'", path, rm.ID)
			}
		}

		for _, b := range rm.Buildings {
			m.AddBuilding(model.Building{Bounds: geom.Rectangle{
				Position: geom.Point{X: b.X, Y: b.Y},
				Size:     geom.Size{Width: b.W, Height: b.H},
			}})
		}

		for _, o := range rm.Offices {
			if err := m.AddOffice(model.Office{
				ID:       o.ID,
				Position: geom.Point{X: o.X, Y: o.Y},
				Offset:   geom.Point{X: o.OffsetX, Y: o.OffsetY},
			}); err != nil {
				return nil, fmt.Errorf("config: %s: %w", path, err)
			}
		}

		loaded.Maps = append(loaded.Maps, m)
	}

	return loaded, nil
}

// BuildGame constructs a fresh Game from a Loaded config, registering every
// map. seed drives the per-session RNG stream.
func BuildGame(loaded *Loaded, seed int64) (*game.Game, error) {
	g := game.New(loaded.LootGeneratorConfig, loaded.MaxInactivityTimeMs, seed)
	for _, m := range loaded.Maps {
		if err := g.AddMap(m); err != nil {
			return nil, err
		}
	}
	return g, nil
}
