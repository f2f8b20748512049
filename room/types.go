/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import (
	"time"

	"github.com/Seednode/imprompt/scoring"
)

// State is the phase a room is in.
type State string

const (
	StateWaiting          State = "waiting"
	StateWaitingForPrompt State = "waiting_for_prompt"
	StateGuessing         State = "guessing"
	StateRoundResults     State = "round_results"
	StateFinished         State = "finished"
)

// Active reports whether a game is underway.
func (s State) Active() bool {
	return s != StateWaiting && s != StateFinished
}

type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	IsPromptGiver bool   `json:"isPromptGiver"`
	IsReady       bool   `json:"isReady"`
	IsRoomCreator bool   `json:"isRoomCreator"`
	IsConnected   bool   `json:"isConnected"`
}

type Spectator struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsSpectator bool   `json:"isSpectator"`
	IsConnected bool   `json:"isConnected"`
}

type Guess struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"guess"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScoredGuess is a guess with its similarity to the prompt.
type ScoredGuess struct {
	Guess
	Score int `json:"score"`
}

// GenerationRequest asks the caller to render Prompt into an image and hand
// the outcome back through ResolveGeneration. Random selects the stock image
// path instead of the configured generator.
type GenerationRequest struct {
	Turn          int
	Prompt        string
	Random        bool
	AutoSubmitted bool
}

// GenerationResult is the outcome of a GenerationRequest.
type GenerationResult struct {
	Turn     int
	ImageURL string
	Err      error
}

// Snapshot is a read-only copy of a room's state.
type Snapshot struct {
	ID                    string
	State                 State
	Players               []Player
	Spectators            []Spectator
	PlayerOrder           []string
	CurrentRound          int
	MaxRounds             int
	CurrentTurnIndex      int
	TurnsCompletedInRound int
	CurrentPromptGiverID  string
	CurrentPrompt         string
	CurrentImageURL       string
	Guesses               []Guess
	IsAutoSubmittedPrompt bool
	PromptStartTime       *time.Time
	RoundStartTime        *time.Time
	Turn                  int
	Generating            bool
	PromptTimerActive     bool
	RoundTimerActive      bool
	ReviewTimerActive     bool
}

// Player looks up a player in the snapshot by id.
func (s Snapshot) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}

	return Player{}, false
}

// Event is an outbound message. An empty To addresses every member of the
// room; otherwise only the member with that session id receives it.
type Event struct {
	Type string
	To   string
	Data any
}

const (
	EventRoomCreated     = "room_created"
	EventRoomUpdate      = "room_update"
	EventSpectatorJoined = "spectator_joined"
	EventGameStarted     = "game_started"
	EventNextTurn        = "next_turn"
	EventPromptTimer     = "prompt_timer_update"
	EventGeneratingImage = "generating_image"
	EventPromptSubmitted = "prompt_submitted"
	EventTimer           = "timer_update"
	EventGuessSubmitted  = "guess_submitted"
	EventRoundEnded      = "round_ended"
	EventGameFinished    = "game_finished"
	EventPlayerLeft      = "player_left"
	EventError           = "error"
)

type RoomCreated struct {
	RoomID       string      `json:"roomId"`
	Players      []Player    `json:"players"`
	Spectators   []Spectator `json:"spectators"`
	GameState    State       `json:"gameState"`
	CurrentRound int         `json:"currentRound"`
	MaxRounds    int         `json:"maxRounds"`
	IsCreator    bool        `json:"isCreator"`
}

type RoomUpdate struct {
	Players            []Player    `json:"players"`
	Spectators         []Spectator `json:"spectators"`
	GameState          State       `json:"gameState"`
	CurrentRound       int         `json:"currentRound"`
	MaxRounds          int         `json:"maxRounds"`
	CurrentPromptGiver string      `json:"currentPromptGiver,omitempty"`
	AllReady           bool        `json:"allReady"`
}

type SpectatorJoined struct {
	Players            []Player    `json:"players"`
	Spectators         []Spectator `json:"spectators"`
	GameState          State       `json:"gameState"`
	CurrentRound       int         `json:"currentRound"`
	MaxRounds          int         `json:"maxRounds"`
	CurrentPromptGiver string      `json:"currentPromptGiver,omitempty"`
	CurrentImage       string      `json:"currentImage"`
	CurrentPrompt      string      `json:"currentPrompt"`
	IsSpectator        bool        `json:"isSpectator"`
}

// TurnStarted is sent as game_started for the first turn and next_turn after.
type TurnStarted struct {
	Round                 int      `json:"round"`
	MaxRounds             int      `json:"maxRounds"`
	CurrentPromptGiver    string   `json:"currentPromptGiver"`
	Players               []Player `json:"players"`
	GameState             State    `json:"gameState"`
	CurrentTurnIndex      int      `json:"currentTurnIndex"`
	TurnsCompletedInRound int      `json:"turnsCompletedInRound"`
	TotalPlayersInRound   int      `json:"totalPlayersInRound"`
}

type TimerUpdate struct {
	TimeRemaining int `json:"timeRemaining"`
}

type PromptSubmitted struct {
	ImageURL      string `json:"imageUrl"`
	TimeRemaining int    `json:"timeRemaining"`
}

type GuessSubmitted struct {
	PlayerName string    `json:"playerName"`
	Guess      string    `json:"guess"`
	Timestamp  time.Time `json:"timestamp"`
}

type RoundEnded struct {
	OriginalPrompt   string          `json:"originalPrompt"`
	IsAutoSubmitted  bool            `json:"isAutoSubmitted"`
	Guesses          []ScoredGuess   `json:"guesses"`
	Awards           []scoring.Award `json:"awards"`
	Players          []Player        `json:"players"`
	Round            int             `json:"round"`
	PromptGiver      string          `json:"promptGiver"`
	PromptGiverBonus int             `json:"promptGiverBonus"`
}

type GameFinished struct {
	Players []Player `json:"players"`
	Winner  *Player  `json:"winner"`
}

type PlayerLeft struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

// ErrorNotice carries an *Error to clients.
type ErrorNotice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
