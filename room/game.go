/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Seednode/imprompt/scoring"
)

const randomImagePrompt = "random image"

// SubmitPrompt accepts the prompt giver's prompt and asks the caller to
// generate an image for it. With random set the prompt text is optional and
// a stock image is used instead of the generator.
func (r *Room) SubmitPrompt(id, prompt string, random bool) (*GenerationRequest, []Event, error) {
	if r.state != StateWaitingForPrompt || id != r.currentPromptGiverID {
		return nil, nil, ErrNotPromptGiver
	}

	if r.generating {
		return nil, nil, ErrGenerationPending
	}

	prompt = strings.TrimSpace(prompt)

	if !random {
		if err := r.validPrompt(prompt); err != nil {
			return nil, nil, err
		}
	}

	if prompt == "" {
		prompt = randomImagePrompt
	}

	r.promptTimer = nil
	r.currentPrompt = prompt
	r.isAutoSubmittedPrompt = false

	return r.requestImage(random, false), r.flush(), nil
}

// ResolveGeneration applies the outcome of an image request. Results for an
// earlier turn are ignored.
func (r *Room) ResolveGeneration(res GenerationResult, now time.Time) []Event {
	if res.Turn != r.turn || r.state != StateWaitingForPrompt || !r.generating {
		return nil
	}

	r.generating = false

	if res.Err != nil {
		r.emitAll(EventError, ErrorNotice{
			Code:    ErrGenerationFailed.Code,
			Message: ErrGenerationFailed.Message,
		})

		return r.flush()
	}

	r.currentImageURL = res.ImageURL
	r.state = StateGuessing
	r.roundStartTime = &now
	r.roundTimer = NewCountdown(now, r.cfg.GuessTime)

	r.emitAll(EventPromptSubmitted, PromptSubmitted{
		ImageURL:      res.ImageURL,
		TimeRemaining: r.roundTimer.Remaining(now),
	})

	return r.flush()
}

// SubmitGuess records a guess from any player other than the prompt giver.
func (r *Room) SubmitGuess(id, text string, now time.Time) ([]Event, error) {
	if r.state != StateGuessing {
		return nil, ErrWrongPhase
	}

	p, ok := r.players[id]
	if !ok {
		return nil, ErrNotAPlayer
	}

	if id == r.currentPromptGiverID {
		return nil, ErrPromptGiverGuess
	}

	text = strings.TrimSpace(text)

	switch {
	case text == "":
		return nil, ErrGuessEmpty
	case utf8.RuneCountInString(text) > r.cfg.GuessCharLimit:
		return nil, ErrGuessTooLong.withMessage("Guess is too long! Maximum %d characters allowed.", r.cfg.GuessCharLimit)
	}

	r.guesses = append(r.guesses, Guess{
		ID:         r.cfg.NewID(),
		PlayerID:   id,
		PlayerName: p.Name,
		Text:       text,
		Timestamp:  now,
	})

	r.emitAll(EventGuessSubmitted, GuessSubmitted{
		PlayerName: p.Name,
		Guess:      text,
		Timestamp:  now,
	})

	return r.flush(), nil
}

// Tick advances every running countdown to now. It may return a request
// when the prompt giver ran out of time and a filler prompt was chosen.
func (r *Room) Tick(now time.Time) ([]Event, *GenerationRequest) {
	var req *GenerationRequest

	if r.promptTimer != nil {
		remaining := r.promptTimer.Remaining(now)

		r.emitAll(EventPromptTimer, TimerUpdate{TimeRemaining: remaining})

		if remaining == 0 {
			r.promptTimer = nil

			if !r.generating {
				req = r.autoSubmit()
			}
		}
	}

	if r.roundTimer != nil {
		remaining := r.roundTimer.Remaining(now)

		r.emitAll(EventTimer, TimerUpdate{TimeRemaining: remaining})

		if remaining == 0 {
			r.endRound(now)
		}
	}

	if r.reviewTimer != nil && r.reviewTimer.Expired(now) {
		r.advance(now)
	}

	return r.flush(), req
}

func (r *Room) validPrompt(prompt string) error {
	switch {
	case prompt == "":
		return ErrPromptEmpty
	case utf8.RuneCountInString(prompt) > r.cfg.PromptCharLimit:
		return ErrPromptTooLong.withMessage("Prompt is too long! Maximum %d characters allowed.", r.cfg.PromptCharLimit)
	case len(strings.Fields(prompt)) > r.cfg.PromptWordLimit:
		return ErrPromptTooManyWords.withMessage("Prompt has too many words! Maximum %d words allowed.", r.cfg.PromptWordLimit)
	}

	return nil
}

func (r *Room) autoSubmit() *GenerationRequest {
	r.currentPrompt = r.cfg.FillerPrompts[r.cfg.Intn(len(r.cfg.FillerPrompts))]
	r.isAutoSubmittedPrompt = true

	return r.requestImage(true, true)
}

func (r *Room) requestImage(random, auto bool) *GenerationRequest {
	r.generating = true

	r.emitAll(EventGeneratingImage, nil)

	return &GenerationRequest{
		Turn:          r.turn,
		Prompt:        r.currentPrompt,
		Random:        random,
		AutoSubmitted: auto,
	}
}

func (r *Room) startGame(now time.Time) {
	r.playerOrder = slices.Clone(r.joinOrder)
	r.currentRound = 1
	r.currentTurnIndex = 0
	r.turnsCompletedInRound = 0
	r.currentPromptGiverID = r.playerOrder[0]

	r.startTurn(now, EventGameStarted)
}

// startTurn resets per-turn state and opens the prompt phase for the
// current prompt giver.
func (r *Room) startTurn(now time.Time, kind string) {
	r.cancelTimers()

	r.turn++
	r.generating = false
	r.state = StateWaitingForPrompt
	r.currentPrompt = ""
	r.currentImageURL = ""
	r.guesses = nil
	r.isAutoSubmittedPrompt = false
	r.roundStartTime = nil
	r.promptStartTime = &now
	r.promptTimer = NewCountdown(now, r.cfg.PromptTime)

	r.syncPromptGiver()

	r.emitAll(kind, TurnStarted{
		Round:                 r.currentRound,
		MaxRounds:             r.maxRounds,
		CurrentPromptGiver:    r.currentPromptGiverID,
		Players:               r.playerList(),
		GameState:             r.state,
		CurrentTurnIndex:      r.currentTurnIndex,
		TurnsCompletedInRound: r.turnsCompletedInRound,
		TotalPlayersInRound:   len(r.playerOrder),
	})
}

// endRound scores the turn's guesses and opens the review phase.
func (r *Room) endRound(now time.Time) {
	r.cancelTimers()
	r.generating = false

	scored := make([]ScoredGuess, 0, len(r.guesses))
	for _, g := range r.guesses {
		scored = append(scored, ScoredGuess{
			Guess: g,
			Score: r.cfg.Thesaurus.Similarity(r.currentPrompt, g.Text),
		})
	}

	slices.SortStableFunc(scored, func(a, b ScoredGuess) int {
		return cmp.Compare(b.Score, a.Score)
	})

	ranked := make([]scoring.Scored, 0, len(scored))
	for _, s := range scored {
		// Guesses of players who have since left still hold their rank.
		ranked = append(ranked, scoring.Scored{PlayerID: s.PlayerID, Score: s.Score})
	}

	awards := r.cfg.Policy.AwardGuessers(ranked)
	present := awards[:0]
	best := make([]int, 0, len(awards))

	for _, a := range awards {
		p, ok := r.players[a.PlayerID]
		if !ok {
			continue
		}

		p.Score += a.Points
		present = append(present, a)
		best = append(best, a.Best)
	}

	giverPoints := 0
	if giver, ok := r.players[r.currentPromptGiverID]; ok {
		giverPoints = r.cfg.Policy.PromptGiverPoints(best, len(r.players)-1, r.isAutoSubmittedPrompt)
		giver.Score += giverPoints
	}

	r.state = StateRoundResults
	r.reviewTimer = NewCountdown(now, r.cfg.ReviewTime)

	r.emitAll(EventRoundEnded, RoundEnded{
		OriginalPrompt:   r.currentPrompt,
		IsAutoSubmitted:  r.isAutoSubmittedPrompt,
		Guesses:          scored,
		Awards:           present,
		Players:          r.playerList(),
		Round:            r.currentRound,
		PromptGiver:      r.currentPromptGiverID,
		PromptGiverBonus: giverPoints,
	})
}

// advance moves to the next turn once the review is over, or finishes the
// game after the last turn of the last round.
func (r *Room) advance(now time.Time) {
	r.reviewTimer = nil

	n := len(r.playerOrder)

	if r.currentRound >= r.maxRounds && r.turnsCompletedInRound+1 >= n {
		r.endGame()

		return
	}

	r.currentTurnIndex = (r.currentTurnIndex + 1) % n
	r.turnsCompletedInRound++

	if r.turnsCompletedInRound >= n {
		r.currentRound++
		r.turnsCompletedInRound = 0
		r.currentTurnIndex = 0
	}

	r.currentPromptGiverID = r.playerOrder[r.currentTurnIndex]

	r.startTurn(now, EventNextTurn)
}

func (r *Room) endGame() {
	r.cancelTimers()
	r.generating = false
	r.state = StateFinished
	r.currentPromptGiverID = ""
	r.syncPromptGiver()

	ranking := r.playerList()
	slices.SortStableFunc(ranking, func(a, b Player) int {
		return cmp.Compare(b.Score, a.Score)
	})

	var winner *Player
	if len(ranking) > 0 {
		w := ranking[0]
		winner = &w
	}

	r.emitAll(EventGameFinished, GameFinished{
		Players: ranking,
		Winner:  winner,
	})
}

// handleDeparture repairs turn bookkeeping after player id left an active
// game. The player is already gone from r.players.
func (r *Room) handleDeparture(id string, now time.Time) {
	wasGiver := id == r.currentPromptGiverID

	idx := slices.Index(r.playerOrder, id)
	if idx >= 0 {
		r.playerOrder = slices.Delete(r.playerOrder, idx, idx+1)

		if idx <= r.currentTurnIndex {
			r.currentTurnIndex = max(r.currentTurnIndex-1, 0)
		}

		if r.currentTurnIndex >= len(r.playerOrder) {
			r.currentTurnIndex = 0
		}
	}

	if len(r.players) < MinPlayersToStart || len(r.playerOrder) < MinPlayersToStart {
		r.endGame()

		return
	}

	if !wasGiver {
		return
	}

	// Score the interrupted turn before anyone else holds the giver role.
	if r.state == StateGuessing {
		r.endRound(now)
	}

	r.currentPromptGiverID = r.playerOrder[r.currentTurnIndex]
	r.syncPromptGiver()

	if r.state == StateWaitingForPrompt {
		r.startTurn(now, EventNextTurn)
	}
}

func (r *Room) syncPromptGiver() {
	for id, p := range r.players {
		p.IsPromptGiver = id == r.currentPromptGiverID
	}
}

func (r *Room) cancelTimers() {
	r.promptTimer = nil
	r.roundTimer = nil
	r.reviewTimer = nil
}
