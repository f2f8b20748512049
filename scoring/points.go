/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scoring

import "math"

// BaseTier prices a similarity of at least Min as round(similarity*Scale + Add).
type BaseTier struct {
	Min   int
	Scale float64
	Add   float64
}

// Bonus grants Points once a similarity reaches Min.
type Bonus struct {
	Min    int
	Points int
}

// Policy holds the tuning tables used to convert similarities into points.
// Tiers are checked in order and the first match wins, so they must be
// sorted from the highest threshold down.
type Policy struct {
	MinScore           int
	Base               []BaseTier
	SpeedBonus         []int
	SpeedMinScore      int
	Accuracy           []Bonus
	Participation      []Bonus
	PromptGiverFloor   int
	PromptGiverCeiling int
}

// DefaultPolicy returns the stock point tables.
func DefaultPolicy() Policy {
	return Policy{
		MinScore: 10,
		Base: []BaseTier{
			{Min: 80, Scale: 1, Add: 8},
			{Min: 65, Scale: 1, Add: 3},
			{Min: 50, Scale: 1},
			{Min: 35, Scale: 0.9},
			{Min: 20, Scale: 0.8},
			{Min: 10, Scale: 0.7},
		},
		SpeedBonus:    []int{10, 7, 4},
		SpeedMinScore: 40,
		Accuracy: []Bonus{
			{Min: 85, Points: 15},
			{Min: 75, Points: 12},
			{Min: 65, Points: 8},
			{Min: 50, Points: 5},
			{Min: 35, Points: 3},
		},
		Participation: []Bonus{
			{Min: 20, Points: 3},
			{Min: 10, Points: 1},
		},
		PromptGiverFloor:   3,
		PromptGiverCeiling: 60,
	}
}

// Scored is a guess reduced to what the allocator needs.
type Scored struct {
	PlayerID string
	Score    int
}

// Award is what a single guesser earned in a turn.
type Award struct {
	PlayerID string `json:"playerId"`
	Best     int    `json:"best"`
	Rank     int    `json:"rank"`
	Points   int    `json:"points"`
}

// BasePoints maps a similarity through the step table.
func (p Policy) BasePoints(similarity int) int {
	for _, t := range p.Base {
		if similarity >= t.Min {
			return int(math.Round(float64(similarity)*t.Scale + t.Add))
		}
	}

	return 0
}

// GuesserPoints prices a player's best similarity of the turn. rank is the
// position of that guess among all guesses of the turn ordered by score.
func (p Policy) GuesserPoints(similarity, rank int) int {
	if similarity < p.MinScore {
		return 0
	}

	points := p.BasePoints(similarity)

	if rank >= 0 && rank < len(p.SpeedBonus) && similarity >= p.SpeedMinScore {
		points += p.SpeedBonus[rank]
	}

	points += firstBonus(p.Accuracy, similarity)
	points += firstBonus(p.Participation, similarity)

	return points
}

// AwardGuessers picks every player's best guess and prices it. ranked must
// be ordered by score, highest first, with equal scores kept in submission
// order; the first entry seen for a player is therefore its best, earliest
// guess.
func (p Policy) AwardGuessers(ranked []Scored) []Award {
	seen := make(map[string]bool, len(ranked))
	awards := make([]Award, 0, len(ranked))

	for rank, s := range ranked {
		if seen[s.PlayerID] {
			continue
		}
		seen[s.PlayerID] = true

		awards = append(awards, Award{
			PlayerID: s.PlayerID,
			Best:     s.Score,
			Rank:     rank,
			Points:   p.GuesserPoints(s.Score, rank),
		})
	}

	return awards
}

// PromptGiverPoints rewards a prompt that was hard but still guessable.
// best holds each guessing player's best similarity and guessers counts
// every player who could have guessed, including those who never did.
func (p Policy) PromptGiverPoints(best []int, guessers int, autoSubmitted bool) int {
	if autoSubmitted || guessers <= 0 {
		return 0
	}

	var sum, excellent, good, decent, attempted int
	for _, s := range best {
		sum += s
		if s >= 80 {
			excellent++
		}
		if s >= 50 {
			good++
		}
		if s >= 25 {
			decent++
		}
		if s >= 10 {
			attempted++
		}
	}

	average := 0.0
	if len(best) > 0 {
		average = float64(sum) / float64(len(best))
	}

	if attempted == 0 && average < 5 {
		return 0
	}

	n := float64(guessers)
	excellentRate := float64(excellent) / n
	goodRate := float64(good) / n
	participation := float64(attempted) / n

	points := 0

	switch {
	case participation >= 0.8 && decent > 0:
		points += 15
	case participation >= 0.6 && decent > 0:
		points += 12
	case participation >= 0.4 && attempted > 0:
		points += 8
	case participation >= 0.2:
		points += 3
	}

	switch {
	case excellentRate == 0 && goodRate == 0 && decent > 0:
		points += 35
	case excellentRate == 0 && goodRate > 0 && goodRate <= 0.4:
		points += 30
	case excellentRate == 0 && goodRate <= 0.6:
		points += 25
	case excellentRate <= 0.2 && goodRate <= 0.5:
		points += 20
	case excellentRate <= 0.4:
		points += 15
	case excellentRate <= 0.6:
		points += 10
	default:
		points += 5
	}

	switch {
	case average >= 20 && average <= 40:
		points += 8
	case average >= 15 && average <= 50:
		points += 5
	case average >= 10 && average <= 60:
		points += 2
	case average < 5:
		points -= 15
	case average < 10:
		points -= 8
	case average > 70:
		points -= 8
	}

	if participation >= 0.8 && average >= 20 && average <= 45 {
		points += 5
	}

	return min(max(points, p.PromptGiverFloor), p.PromptGiverCeiling)
}

func firstBonus(tiers []Bonus, similarity int) int {
	for _, t := range tiers {
		if similarity >= t.Min {
			return t.Points
		}
	}

	return 0
}
