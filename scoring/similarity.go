/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scoring rates guesses against the prompt that produced an image,
// and turns those ratings into game points.
package scoring

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	exactWeight   = 0.40
	partialWeight = 0.25
	orderWeight   = 0.15
	synonymWeight = 0.20
)

// Normalize lowercases text, drops punctuation and trims surrounding space.
func Normalize(text string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// Similarity returns how closely guess matches original, from 0 to 100.
func Similarity(original, guess string) int {
	return DefaultThesaurus.Similarity(original, guess)
}

// Similarity scores guess against original using t for synonym lookups.
func (t Thesaurus) Similarity(original, guess string) int {
	orig := Normalize(original)
	g := Normalize(guess)

	if orig == g {
		return 100
	}

	origWords := strings.Fields(orig)
	guessWords := strings.Fields(g)

	final := (exactWordScore(origWords, guessWords)*exactWeight +
		partialWordScore(origWords, guessWords)*partialWeight +
		wordOrderScore(origWords, guessWords)*orderWeight +
		t.synonymScore(origWords, guessWords)*synonymWeight) *
		lengthPenalty(orig, g)

	return int(math.Round(math.Max(0, math.Min(100, final))))
}

func exactWordScore(origWords, guessWords []string) float64 {
	if len(origWords) == 0 {
		return 0
	}

	used := make([]bool, len(guessWords))
	matches := 0

	for _, o := range origWords {
		for i, w := range guessWords {
			if !used[i] && o == w {
				used[i] = true
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(origWords)) * 100
}

func partialWordScore(origWords, guessWords []string) float64 {
	if len(origWords) == 0 {
		return 0
	}

	used := make([]bool, len(guessWords))
	total := 0.0

	for _, o := range origWords {
		best, bestIndex := 0.0, -1

		for i, w := range guessWords {
			if used[i] {
				continue
			}

			score := 0.0

			ol, wl := utf8.RuneCountInString(o), utf8.RuneCountInString(w)
			if ol >= 4 && wl >= 4 && (strings.Contains(o, w) || strings.Contains(w, o)) {
				score = float64(min(ol, wl)) / float64(max(ol, wl)) * 70
			}

			if score < 50 {
				if lev := levenshteinSimilarity(o, w); lev > 60 {
					score = math.Max(score, float64(lev)*0.8)
				}
			}

			if score > best {
				best, bestIndex = score, i
			}
		}

		if bestIndex != -1 {
			used[bestIndex] = true
			total += best
		}
	}

	return total / float64(len(origWords))
}

func wordOrderScore(origWords, guessWords []string) float64 {
	if len(origWords) <= 1 || len(guessWords) <= 1 {
		return 100
	}

	preserved, comparisons := 0, 0

	for i := 0; i < len(origWords)-1; i++ {
		p1 := slices.Index(guessWords, origWords[i])
		p2 := slices.Index(guessWords, origWords[i+1])

		if p1 == -1 || p2 == -1 {
			continue
		}

		comparisons++
		if p1 < p2 {
			preserved++
		}
	}

	if comparisons == 0 {
		return 50
	}

	return float64(preserved) / float64(comparisons) * 100
}

func lengthPenalty(original, guess string) float64 {
	ol, gl := utf8.RuneCountInString(original), utf8.RuneCountInString(guess)
	if ol == 0 || gl == 0 {
		return 0
	}

	ratio := float64(min(ol, gl)) / float64(max(ol, gl))

	switch {
	case ratio < 0.3:
		return 0.7
	case ratio < 0.5:
		return 0.85
	default:
		return 1.0
	}
}

func levenshteinSimilarity(a, b string) int {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}

	d := Levenshtein(a, b)

	return max(0, int(math.Round(float64(maxLen-d)/float64(maxLen)*100)))
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i

		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}

			curr[j] = 1 + min(prev[j-1], prev[j], curr[j-1])
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
