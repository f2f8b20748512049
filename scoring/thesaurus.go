/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scoring

import "slices"

// Thesaurus maps a head word to the words accepted in its place. Lookups
// work in both directions between a head word and its alternatives.
type Thesaurus map[string][]string

// DefaultThesaurus covers the everyday nouns and adjectives players tend to
// put into prompts.
var DefaultThesaurus = Thesaurus{
	"car":       {"automobile", "vehicle", "auto"},
	"dog":       {"puppy", "canine", "hound"},
	"cat":       {"kitten", "feline"},
	"house":     {"home", "building", "residence"},
	"big":       {"large", "huge", "giant", "massive"},
	"small":     {"tiny", "little", "mini"},
	"happy":     {"joyful", "cheerful", "glad"},
	"sad":       {"unhappy", "depressed", "gloomy"},
	"fast":      {"quick", "rapid", "speedy"},
	"slow":      {"sluggish", "gradual"},
	"beautiful": {"pretty", "gorgeous", "lovely"},
	"ugly":      {"hideous", "unattractive"},
	"red":       {"crimson", "scarlet"},
	"blue":      {"azure", "navy"},
	"green":     {"emerald", "lime"},
	"old":       {"ancient", "elderly", "aged"},
	"new":       {"fresh", "modern", "recent"},
}

// Synonyms reports whether a and b are listed as synonyms of each other.
func (t Thesaurus) Synonyms(a, b string) bool {
	return slices.Contains(t[a], b) || slices.Contains(t[b], a)
}

func (t Thesaurus) synonymScore(origWords, guessWords []string) float64 {
	if len(origWords) == 0 {
		return 0
	}

	used := make([]bool, len(guessWords))
	matches := 0

	for _, o := range origWords {
		for i, w := range guessWords {
			if !used[i] && t.Synonyms(o, w) {
				used[i] = true
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(origWords)) * 100
}
