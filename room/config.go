/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Seednode/imprompt/scoring"
)

const (
	MinRounds = 1
	MaxRounds = 10

	MinPlayersToStart = 2
)

// Config tunes a room. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	MaxPlayers       int
	DefaultMaxRounds int

	PromptTime time.Duration
	GuessTime  time.Duration
	ReviewTime time.Duration

	NameCharLimit   int
	PromptCharLimit int
	PromptWordLimit int
	GuessCharLimit  int

	// FillerPrompts are used when the prompt giver runs out of time.
	FillerPrompts []string

	Policy    scoring.Policy
	Thesaurus scoring.Thesaurus

	NewID func() string
	Intn  func(n int) int
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:       5,
		DefaultMaxRounds: 5,
		PromptTime:       30 * time.Second,
		GuessTime:        30 * time.Second,
		ReviewTime:       8 * time.Second,
		NameCharLimit:    20,
		PromptCharLimit:  20,
		PromptWordLimit:  5,
		GuessCharLimit:   50,
		FillerPrompts:    []string{"cat", "sunset", "robot", "flower", "mountain"},
		Policy:           scoring.DefaultPolicy(),
		Thesaurus:        scoring.DefaultThesaurus,
		NewID:            uuid.NewString,
		Intn:             rand.IntN,
	}
}

// ClampRounds forces n into [MinRounds, MaxRounds].
func ClampRounds(n int) int {
	return min(max(n, MinRounds), MaxRounds)
}
