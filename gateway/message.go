/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Seednode/imprompt/room"
)

// Intents accepted from clients.
const (
	IntentCreateRoom          = "create_room"
	IntentJoinRoom            = "join_room"
	IntentJoinRoomAsSpectator = "join_room_as_spectator"
	IntentToggleReady         = "toggle_ready"
	IntentSetMaxRounds        = "set_max_rounds"
	IntentSubmitPrompt        = "submit_prompt"
	IntentSubmitGuess         = "submit_guess"
	IntentLeaveRoom           = "leave_room"
)

// ClientMessage is every inbound message; only the fields relevant to Type
// are read.
type ClientMessage struct {
	Type           string `json:"type"`
	RoomID         string `json:"roomId,omitempty"`
	PlayerName     string `json:"playerName,omitempty"`
	SpectatorName  string `json:"spectatorName,omitempty"`
	MaxRounds      *int   `json:"maxRounds,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	UseRandomImage bool   `json:"useRandomImage,omitempty"`
	Guess          string `json:"guess,omitempty"`
}

// Envelope is every outbound message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var (
	errMalformed = &room.Error{Kind: room.KindValidation, Code: "invalid_message", Message: "Could not read that message."}
	errInternal  = &room.Error{Kind: room.KindConflict, Code: "internal_error", Message: "Something went wrong. Please try again."}
)

func errorEnvelope(err error) Envelope {
	var e *room.Error
	if !errors.As(err, &e) {
		e = errInternal
	}

	return Envelope{
		Type: room.EventError,
		Data: room.ErrorNotice{Code: e.Code, Message: e.Message},
	}
}

const maxRoomCodeLength = 12

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// NormalizeRoomCode trims and upper-cases code and checks its alphabet.
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if code == "" || len(code) > maxRoomCodeLength || !roomCodePattern.MatchString(code) {
		return "", room.ErrInvalidRoomCode
	}

	return code, nil
}
