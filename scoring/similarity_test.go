/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello, World!  "))
	assert.Equal(t, "its a cat", Normalize("It's a cat."))
	assert.Equal(t, "", Normalize("?!"))
}

func TestSimilarityIdentity(t *testing.T) {
	prompts := []string{"red car", "A big, old HOUSE", "x", "", "sunset over the sea"}

	for _, p := range prompts {
		assert.Equal(t, 100, Similarity(p, p), p)
	}

	assert.Equal(t, 100, Similarity("Red Car!", "red car"))
}

func TestSimilarityBounds(t *testing.T) {
	words := []string{"", "a", "red car", "blue automobile", "the quick brown fox", "zzzz", "car car car car", "!!!"}

	for _, p := range words {
		for _, g := range words {
			s := Similarity(p, g)
			assert.GreaterOrEqual(t, s, 0, "%q vs %q", p, g)
			assert.LessOrEqual(t, s, 100, "%q vs %q", p, g)
		}
	}
}

func TestSimilarityKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		original string
		guess    string
		want     int
	}{
		{"one word of two, short guess", "red car", "car", 38},
		{"typo in a single word", "elephant", "elefant", 30},
		{"reversed word order", "big red dog", "dog red big", 60},
		{"unrelated single word", "sunset", "xq", 13},
		{"empty guess", "red car", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similarity(tt.original, tt.guess))
		})
	}
}

func TestSimilaritySynonymsHelp(t *testing.T) {
	withSynonyms := Similarity("red car", "crimson automobile")
	without := Similarity("red car", "crimson airplane")

	assert.Greater(t, withSynonyms, without)
}

func TestSimilarityExactWordsAreConsumedOnce(t *testing.T) {
	assert.Equal(t, 50.0, exactWordScore([]string{"car", "car"}, []string{"car"}))
	assert.Equal(t, 100.0, exactWordScore([]string{"car"}, []string{"car", "car"}))
}

func TestWordOrderScore(t *testing.T) {
	assert.Equal(t, 100.0, wordOrderScore([]string{"cat"}, []string{"dog", "cat"}))
	assert.Equal(t, 50.0, wordOrderScore([]string{"red", "car"}, []string{"blue", "bike"}))
	assert.Equal(t, 100.0, wordOrderScore([]string{"red", "car"}, []string{"red", "fast", "car"}))
	assert.Equal(t, 0.0, wordOrderScore([]string{"red", "car"}, []string{"car", "red"}))
}

func TestLengthPenalty(t *testing.T) {
	assert.Equal(t, 1.0, lengthPenalty("abcd", "abc"))
	assert.Equal(t, 0.85, lengthPenalty("abcdefghij", "abcd"))
	assert.Equal(t, 0.7, lengthPenalty("abcdefghij", "ab"))
	assert.Equal(t, 0.0, lengthPenalty("abc", ""))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 3, Levenshtein("", "abc"))
	assert.Equal(t, 0, Levenshtein("same", "same"))
	assert.Equal(t, 1, Levenshtein("café", "cafe"))
}

func TestThesaurusSynonyms(t *testing.T) {
	assert.True(t, DefaultThesaurus.Synonyms("car", "automobile"))
	assert.True(t, DefaultThesaurus.Synonyms("automobile", "car"))
	assert.False(t, DefaultThesaurus.Synonyms("automobile", "vehicle"))
	assert.False(t, DefaultThesaurus.Synonyms("car", "car"))

	custom := Thesaurus{"boat": {"ship"}}
	assert.Equal(t, 100.0, custom.synonymScore([]string{"boat"}, []string{"ship"}))
	assert.Equal(t, 50.0, custom.synonymScore([]string{"boat", "boat"}, []string{"ship"}))
}
