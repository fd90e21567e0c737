// Command validate-config checks a map/gameplay config JSON file before a
// server is started with it: structural schema (required fields, road
// shape, duplicate ids), plus a reachability pass ensuring every office
// sits on a road a dog can actually stand on. Reports accumulate per file
// into a ValidationResult rather than aborting on the first problem found.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Proger1298/gaming-server/internal/config"
	"github.com/Proger1298/gaming-server/internal/model"
)

// ValidationResult captures the outcome of validating a single file. Notes
// accumulates the validation errors found together with the informational
// "✓" messages; Valid is false if any error was recorded.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	loaded, err := config.Load(path, false)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	if len(loaded.Maps) == 0 {
		result.Valid = false
		result.Notes = append(result.Notes, "document contains no maps")
		return result
	}

	for _, m := range loaded.Maps {
		if len(m.Roads()) == 0 {
			result.Valid = false
			result.Notes = append(result.Notes, fmt.Sprintf("map %q has no roads: no dog could ever move", m.ID))
		}
		if m.LootTypesCount() == 0 {
			result.Valid = false
			result.Notes = append(result.Notes, fmt.Sprintf("map %q has no loot types", m.ID))
		}

		unreachable := unreachableOffices(m)
		if len(unreachable) > 0 {
			result.Valid = false
			for _, id := range unreachable {
				result.Notes = append(result.Notes, fmt.Sprintf("map %q: office %q is not on any road", m.ID, id))
			}
		} else if len(m.Offices()) > 0 {
			result.Notes = append(result.Notes, fmt.Sprintf("✓ map %q: all %d offices are road-reachable", m.ID, len(m.Offices())))
		}

		result.Notes = append(result.Notes, fmt.Sprintf("✓ map %q: %d roads, %d buildings, %d loot types",
			m.ID, len(m.Roads()), len(m.Buildings()), m.LootTypesCount()))
	}

	return result
}

// unreachableOffices returns the id of every office whose position does not
// lie on any road's lattice points.
func unreachableOffices(m *model.Map) []string {
	var out []string
	for _, o := range m.Offices() {
		if len(m.RoadsAt(o.Position)) == 0 {
			out = append(out, o.ID)
		}
	}
	return out
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: validate-config <file-or-glob>...")
		os.Exit(2)
	}

	var files []string
	for _, pattern := range os.Args[1:] {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			files = append(files, pattern)
			continue
		}
		files = append(files, matches...)
	}

	allValid := true
	for _, f := range files {
		result := validateFile(f)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Println("VALID")
		} else {
			fmt.Println("INVALID")
			allValid = false
		}
		for _, note := range result.Notes {
			fmt.Println("  " + note)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("all configurations are valid")
		return
	}
	fmt.Println("some configurations have errors")
	os.Exit(1)
}
