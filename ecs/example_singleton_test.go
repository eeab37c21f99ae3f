package ecs_test

import (
	"fmt"

	"github.com/plus3/scenegraph/ecs"
)

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

type GameScore struct {
	Points int
	Level  int
}

// ExampleNewSingleton demonstrates creating and accessing singletons.
// Singletons are World-wide values not associated with any entity, useful for
// frame state, configuration, or other application-wide data.
func ExampleNewSingleton() {
	w := ecs.NewWorld(ecs.NewComponentRegistry())

	config := ecs.NewSingleton(w, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})

	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	config.Get().Difficulty = "Hard"
	fmt.Printf("Updated difficulty: %s\n", config.Get().Difficulty)

	sameConfig := ecs.NewSingleton[GameConfig](w)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Updated difficulty: Hard
	// Same config: Hard difficulty
}

// ExampleSingleton_perWorld shows that each World owns its own singletons.
func ExampleSingleton_perWorld() {
	registry := ecs.NewComponentRegistry()
	left := ecs.NewWorld(registry)
	right := ecs.NewWorld(registry)

	ecs.NewSingleton(left, GameScore{Points: 100, Level: 2})
	ecs.NewSingleton(right, GameScore{Points: 5, Level: 1})

	fmt.Printf("Left: %d points\n", ecs.NewSingleton[GameScore](left).Get().Points)
	fmt.Printf("Right: %d points\n", ecs.NewSingleton[GameScore](right).Get().Points)

	// Output:
	// Left: 100 points
	// Right: 5 points
}
