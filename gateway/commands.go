/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"time"

	"github.com/Seednode/imprompt/room"
)

type outcome struct {
	events   []room.Event
	generate *room.GenerationRequest
}

// command applies one intent from session id to r.
type command func(r *room.Room, id string, msg ClientMessage, now time.Time) (outcome, error)

// roomCommands are the intents handled inside a room's hub.
var roomCommands = map[string]command{
	IntentJoinRoom:            joinRoom,
	IntentJoinRoomAsSpectator: joinRoomAsSpectator,
	IntentToggleReady:         toggleReady,
	IntentSetMaxRounds:        setMaxRounds,
	IntentSubmitPrompt:        submitPrompt,
	IntentSubmitGuess:         submitGuess,
	IntentLeaveRoom:           leaveRoom,
}

func joinRoom(r *room.Room, id string, msg ClientMessage, _ time.Time) (outcome, error) {
	events, err := r.AddPlayer(id, msg.PlayerName)

	return outcome{events: events}, err
}

func joinRoomAsSpectator(r *room.Room, id string, msg ClientMessage, _ time.Time) (outcome, error) {
	events, err := r.AddSpectator(id, msg.SpectatorName)

	return outcome{events: events}, err
}

func toggleReady(r *room.Room, id string, _ ClientMessage, now time.Time) (outcome, error) {
	return outcome{events: r.ToggleReady(id, now)}, nil
}

func setMaxRounds(r *room.Room, id string, msg ClientMessage, _ time.Time) (outcome, error) {
	if msg.MaxRounds == nil {
		return outcome{}, room.ErrInvalidRounds
	}

	events, err := r.SetMaxRounds(id, *msg.MaxRounds)

	return outcome{events: events}, err
}

func submitPrompt(r *room.Room, id string, msg ClientMessage, _ time.Time) (outcome, error) {
	req, events, err := r.SubmitPrompt(id, msg.Prompt, msg.UseRandomImage)

	return outcome{events: events, generate: req}, err
}

func submitGuess(r *room.Room, id string, msg ClientMessage, now time.Time) (outcome, error) {
	events, err := r.SubmitGuess(id, msg.Guess, now)

	return outcome{events: events}, err
}

func leaveRoom(r *room.Room, id string, _ ClientMessage, now time.Time) (outcome, error) {
	return outcome{events: r.Remove(id, now)}, nil
}
