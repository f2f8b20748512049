/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import (
	"errors"
	"fmt"
)

// Kind groups errors by who gets told and whether state may change.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuthorization
	KindGeneration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Error is a failure reported back to clients. Two errors match under
// errors.Is when their codes are equal, so formatted variants still match
// the sentinel values below.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Code == e.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// withMessage copies e with a more specific message.
func (e *Error) withMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidName        = newError(KindValidation, "invalid_name", "Please enter a name.")
	ErrInvalidRoomCode    = newError(KindValidation, "invalid_room_code", "Room codes may only contain letters and numbers.")
	ErrInvalidRounds      = newError(KindValidation, "invalid_rounds", "Please choose a number of rounds.")
	ErrPromptEmpty        = newError(KindValidation, "prompt_empty", "Prompt cannot be empty!")
	ErrPromptTooLong      = newError(KindValidation, "prompt_too_long", "Prompt is too long!")
	ErrPromptTooManyWords = newError(KindValidation, "prompt_too_many_words", "Prompt has too many words!")
	ErrGuessEmpty         = newError(KindValidation, "guess_empty", "Guess cannot be empty!")
	ErrGuessTooLong       = newError(KindValidation, "guess_too_long", "Guess is too long!")
	ErrUnknownIntent      = newError(KindValidation, "unknown_intent", "Unknown message type.")
	ErrRateLimited        = newError(KindValidation, "rate_limited", "Slow down!")

	ErrRoomNotFound = newError(KindNotFound, "room_not_found", "That room does not exist. Please check the room code or create a new room.")
	ErrNotInRoom    = newError(KindNotFound, "not_in_room", "You are not in that room.")

	ErrRoomExists         = newError(KindConflict, "room_exists", "A room with that code already exists.")
	ErrGameInProgress     = newError(KindConflict, "game_in_progress", "This game is already in progress. Please create or join a different room.")
	ErrNameTaken          = newError(KindConflict, "name_taken", "A player with this name is already in the room. Please choose a different name.")
	ErrSpectatorNameTaken = newError(KindConflict, "name_taken", "A spectator with this name is already in the room. Please choose a different name.")
	ErrRoomFull           = newError(KindConflict, "room_full", "Room is full!")
	ErrAlreadyJoined      = newError(KindConflict, "already_joined", "You have already joined a room.")
	ErrWrongPhase         = newError(KindConflict, "wrong_phase", "That is not possible right now.")
	ErrGenerationPending  = newError(KindConflict, "generation_pending", "An image is already being generated.")

	ErrNotRoomCreator   = newError(KindAuthorization, "not_room_creator", "Only the room creator can change the number of rounds.")
	ErrNotPromptGiver   = newError(KindAuthorization, "not_prompt_giver", "It is not your turn to submit a prompt.")
	ErrPromptGiverGuess = newError(KindAuthorization, "prompt_giver_guess", "The prompt giver cannot guess.")
	ErrNotAPlayer       = newError(KindAuthorization, "not_a_player", "Only players can do that.")

	ErrGenerationFailed = newError(KindGeneration, "generation_failed", "Failed to generate image. Please try again.")
)

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
