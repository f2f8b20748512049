/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package room holds the state machine of a single game room. A Room is not
// safe for concurrent use; its owner serializes every call and delivers the
// events each call returns.
package room

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

type Room struct {
	id  string
	cfg Config

	players        map[string]*Player
	joinOrder      []string
	spectators     map[string]*Spectator
	spectatorOrder []string
	creatorID      string

	state                 State
	playerOrder           []string
	currentRound          int
	maxRounds             int
	currentTurnIndex      int
	turnsCompletedInRound int
	currentPromptGiverID  string
	currentPrompt         string
	currentImageURL       string
	guesses               []Guess
	isAutoSubmittedPrompt bool
	promptStartTime       *time.Time
	roundStartTime        *time.Time

	promptTimer *Countdown
	roundTimer  *Countdown
	reviewTimer *Countdown

	// turn identifies the current prompt phase. Generation results carrying
	// an older value are dropped.
	turn       int
	generating bool

	events []Event
}

func New(id string, cfg Config) *Room {
	return &Room{
		id:         id,
		cfg:        cfg,
		players:    make(map[string]*Player),
		spectators: make(map[string]*Spectator),
		state:      StateWaiting,
		maxRounds:  ClampRounds(cfg.DefaultMaxRounds),
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) State() State {
	return r.state
}

// Empty reports whether the room has neither players nor spectators.
func (r *Room) Empty() bool {
	return len(r.players) == 0 && len(r.spectators) == 0
}

// HasMember reports whether id is a player or spectator of the room.
func (r *Room) HasMember(id string) bool {
	_, player := r.players[id]
	_, spectator := r.spectators[id]

	return player || spectator
}

// Members returns the session ids of every player and spectator.
func (r *Room) Members() []string {
	ids := make([]string, 0, len(r.joinOrder)+len(r.spectatorOrder))
	ids = append(ids, r.joinOrder...)
	ids = append(ids, r.spectatorOrder...)

	return ids
}

func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		ID:                    r.id,
		State:                 r.state,
		Players:               r.playerList(),
		Spectators:            r.spectatorList(),
		PlayerOrder:           slices.Clone(r.playerOrder),
		CurrentRound:          r.currentRound,
		MaxRounds:             r.maxRounds,
		CurrentTurnIndex:      r.currentTurnIndex,
		TurnsCompletedInRound: r.turnsCompletedInRound,
		CurrentPromptGiverID:  r.currentPromptGiverID,
		CurrentPrompt:         r.currentPrompt,
		CurrentImageURL:       r.currentImageURL,
		Guesses:               slices.Clone(r.guesses),
		IsAutoSubmittedPrompt: r.isAutoSubmittedPrompt,
		Turn:                  r.turn,
		Generating:            r.generating,
		PromptTimerActive:     r.promptTimer != nil,
		RoundTimerActive:      r.roundTimer != nil,
		ReviewTimerActive:     r.reviewTimer != nil,
	}

	if r.promptStartTime != nil {
		t := *r.promptStartTime
		s.PromptStartTime = &t
	}

	if r.roundStartTime != nil {
		t := *r.roundStartTime
		s.RoundStartTime = &t
	}

	return s
}

// RoomCreated builds the payload sent to a room's creator.
func (r *Room) RoomCreated() RoomCreated {
	return RoomCreated{
		RoomID:       r.id,
		Players:      r.playerList(),
		Spectators:   r.spectatorList(),
		GameState:    r.state,
		CurrentRound: r.currentRound,
		MaxRounds:    r.maxRounds,
		IsCreator:    true,
	}
}

// AddPlayer seats a new player. Only possible while waiting; the first
// player becomes the room creator.
func (r *Room) AddPlayer(id, name string) ([]Event, error) {
	name, err := r.validName(name)
	if err != nil {
		return nil, err
	}

	if r.state != StateWaiting {
		return nil, ErrGameInProgress
	}

	if r.HasMember(id) {
		return nil, ErrAlreadyJoined
	}

	for _, p := range r.players {
		if p.Name == name {
			return nil, ErrNameTaken
		}
	}

	if len(r.players) >= r.cfg.MaxPlayers {
		return nil, ErrRoomFull.withMessage("Room is full! Maximum %d players allowed.", r.cfg.MaxPlayers)
	}

	creator := len(r.players) == 0
	if creator {
		r.creatorID = id
	}

	r.players[id] = &Player{
		ID:            id,
		Name:          name,
		IsRoomCreator: creator,
		IsConnected:   true,
	}
	r.joinOrder = append(r.joinOrder, id)

	r.emitRoomUpdate()

	return r.flush(), nil
}

// AddSpectator admits an observer in any state.
func (r *Room) AddSpectator(id, name string) ([]Event, error) {
	name, err := r.validName(name)
	if err != nil {
		return nil, err
	}

	if r.HasMember(id) {
		return nil, ErrAlreadyJoined
	}

	for _, s := range r.spectators {
		if s.Name == name {
			return nil, ErrSpectatorNameTaken
		}
	}

	r.spectators[id] = &Spectator{
		ID:          id,
		Name:        name,
		IsSpectator: true,
		IsConnected: true,
	}
	r.spectatorOrder = append(r.spectatorOrder, id)

	joined := SpectatorJoined{
		Players:            r.playerList(),
		Spectators:         r.spectatorList(),
		GameState:          r.state,
		CurrentRound:       r.currentRound,
		MaxRounds:          r.maxRounds,
		CurrentPromptGiver: r.currentPromptGiverID,
		CurrentImage:       r.currentImageURL,
		IsSpectator:        true,
	}

	// Spectators joining mid-turn must not learn the answer early.
	if r.state == StateRoundResults {
		joined.CurrentPrompt = r.currentPrompt
	}

	r.emitTo(id, EventSpectatorJoined, joined)
	r.emitRoomUpdate()

	return r.flush(), nil
}

// ToggleReady flips a player's ready flag. Once at least two players are
// all ready, the game starts.
func (r *Room) ToggleReady(id string, now time.Time) []Event {
	if r.state != StateWaiting {
		return nil
	}

	p, ok := r.players[id]
	if !ok {
		return nil
	}

	p.IsReady = !p.IsReady

	r.emitRoomUpdate()

	if r.allReady() {
		r.startGame(now)
	}

	return r.flush()
}

// SetMaxRounds lets the creator pick the game length before it starts.
func (r *Room) SetMaxRounds(id string, n int) ([]Event, error) {
	if r.state != StateWaiting {
		return nil, nil
	}

	if id != r.creatorID {
		return nil, ErrNotRoomCreator
	}

	r.maxRounds = ClampRounds(n)

	r.emitRoomUpdate()

	return r.flush(), nil
}

// Remove handles a member leaving or disconnecting.
func (r *Room) Remove(id string, now time.Time) []Event {
	if _, ok := r.spectators[id]; ok {
		delete(r.spectators, id)
		r.spectatorOrder = deleteID(r.spectatorOrder, id)

		if r.Empty() {
			r.cancelTimers()
		}

		r.emitRoomUpdate()

		return r.flush()
	}

	p, ok := r.players[id]
	if !ok {
		return nil
	}

	delete(r.players, id)
	r.joinOrder = deleteID(r.joinOrder, id)

	if r.state.Active() {
		r.handleDeparture(id, now)
	}

	if r.Empty() {
		r.cancelTimers()
	}

	r.emitRoomUpdate()
	r.emitAll(EventPlayerLeft, PlayerLeft{
		PlayerName: p.Name,
		Message:    p.Name + " left the game",
	})

	return r.flush()
}

func (r *Room) validName(name string) (string, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return "", ErrInvalidName
	case utf8.RuneCountInString(name) > r.cfg.NameCharLimit:
		return "", ErrInvalidName.withMessage("Names are limited to %d characters.", r.cfg.NameCharLimit)
	}

	return name, nil
}

func (r *Room) allReady() bool {
	if len(r.players) < MinPlayersToStart {
		return false
	}

	for _, p := range r.players {
		if !p.IsReady {
			return false
		}
	}

	return true
}

func (r *Room) playerList() []Player {
	list := make([]Player, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		list = append(list, *r.players[id])
	}

	return list
}

func (r *Room) spectatorList() []Spectator {
	list := make([]Spectator, 0, len(r.spectatorOrder))
	for _, id := range r.spectatorOrder {
		list = append(list, *r.spectators[id])
	}

	return list
}

func (r *Room) emitAll(kind string, data any) {
	r.events = append(r.events, Event{Type: kind, Data: data})
}

func (r *Room) emitTo(id, kind string, data any) {
	r.events = append(r.events, Event{Type: kind, To: id, Data: data})
}

func (r *Room) emitRoomUpdate() {
	r.emitAll(EventRoomUpdate, RoomUpdate{
		Players:            r.playerList(),
		Spectators:         r.spectatorList(),
		GameState:          r.state,
		CurrentRound:       r.currentRound,
		MaxRounds:          r.maxRounds,
		CurrentPromptGiver: r.currentPromptGiverID,
		AllReady:           r.allReady(),
	})
}

func (r *Room) flush() []Event {
	events := r.events
	r.events = nil

	return events
}

func deleteID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
