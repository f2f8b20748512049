/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Seednode/imprompt/imagegen"
	"github.com/Seednode/imprompt/room"
)

const waitFor = 2 * time.Second

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)

	return c.now
}

type fakeTickers struct {
	ch chan time.Time
}

func (f *fakeTickers) create(time.Duration) (<-chan time.Time, func()) {
	return f.ch, func() {}
}

func (f *fakeTickers) tick(t *testing.T, now time.Time) {
	t.Helper()

	select {
	case f.ch <- now:
	case <-time.After(waitFor):
		t.Fatal("no hub took the tick")
	}
}

type fakeGenerator struct {
	name  string
	url   string
	err   error
	calls atomic.Int32
}

func (f *fakeGenerator) Name() string {
	return f.name
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)

	if f.err != nil {
		return "", f.err
	}

	return f.url, nil
}

type harness struct {
	gw      *Gateway
	clock   *fakeClock
	tickers *fakeTickers
	gen     *fakeGenerator
	stock   *fakeGenerator
}

func newHarness(t *testing.T, tweak ...func(*Options)) *harness {
	t.Helper()

	h := &harness{
		clock:   &fakeClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)},
		tickers: &fakeTickers{ch: make(chan time.Time)},
		gen:     &fakeGenerator{name: "together", url: "https://cdn.example.com/generated.png"},
		stock:   &fakeGenerator{name: "stock", url: "https://images.example.com/stock.jpg"},
	}

	opts := Options{
		Room:      room.DefaultConfig(),
		Generator: h.gen,
		Stock:     h.stock,
		Usage:     imagegen.NewMemoryUsage(),
		Tickers:   h.tickers.create,
		Clock:     h.clock.Now,
		Logger:    zerolog.Nop(),
	}

	for _, fn := range tweak {
		fn(&opts)
	}

	h.gw = New(opts)

	return h
}

func send(t *testing.T, g *Gateway, s *Session, msg ClientMessage) {
	t.Helper()

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	g.Handle(s, data)
}

// expect reads from s until a message of the given type arrives.
func expect(t *testing.T, s *Session, kind string) Envelope {
	t.Helper()

	timeout := time.After(waitFor)

	for {
		select {
		case env := <-s.Outbox():
			if env.Type == kind {
				return env
			}
		case <-timeout:
			t.Fatalf("session %s: timed out waiting for %s", s.ID(), kind)

			return Envelope{}
		}
	}
}

func expectError(t *testing.T, s *Session, code string) {
	t.Helper()

	env := expect(t, s, room.EventError)
	assert.Equal(t, code, env.Data.(room.ErrorNotice).Code)
}

func drain(s *Session) {
	for {
		select {
		case <-s.Outbox():
		default:
			return
		}
	}
}

// startGame creates room GAME with Alice and Bob and readies both.
func startGame(t *testing.T, h *harness) (alice, bob *Session) {
	t.Helper()

	alice = h.gw.Connect("alice")
	bob = h.gw.Connect("bob")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: "game", PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, bob, ClientMessage{Type: IntentJoinRoom, RoomID: "GAME", PlayerName: "Bob"})
	send(t, h.gw, alice, ClientMessage{Type: IntentToggleReady})
	send(t, h.gw, bob, ClientMessage{Type: IntentToggleReady})

	expect(t, alice, room.EventGameStarted)
	expect(t, bob, room.EventGameStarted)

	return alice, bob
}

func TestCreateRoom(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: " party1 ", PlayerName: "Alice"})

	created := expect(t, alice, room.EventRoomCreated).Data.(room.RoomCreated)
	assert.Equal(t, "PARTY1", created.RoomID)
	assert.True(t, created.IsCreator)
	require.Len(t, created.Players, 1)
	assert.True(t, created.Players[0].IsRoomCreator)

	assert.Equal(t, 1, h.gw.Rooms())
	assert.Equal(t, "PARTY1", alice.RoomID())

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, PlayerName: "Alice"})
	expectError(t, alice, "already_joined")
}

func TestCreateRoomGeneratesCode(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, PlayerName: "Alice"})

	created := expect(t, alice, room.EventRoomCreated).Data.(room.RoomCreated)
	assert.Len(t, created.RoomID, 6)

	code, err := NormalizeRoomCode(created.RoomID)
	require.NoError(t, err)
	assert.Equal(t, created.RoomID, code)
}

func TestCreateRoomErrors(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")
	bob := h.gw.Connect("bob")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: "ROOM1", PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, bob, ClientMessage{Type: IntentCreateRoom, RoomID: "room1", PlayerName: "Bob"})
	expectError(t, bob, "room_exists")

	send(t, h.gw, bob, ClientMessage{Type: IntentCreateRoom, RoomID: "no spaces", PlayerName: "Bob"})
	expectError(t, bob, "invalid_room_code")

	send(t, h.gw, bob, ClientMessage{Type: IntentCreateRoom, PlayerName: ""})
	expectError(t, bob, "invalid_name")

	assert.Equal(t, 1, h.gw.Rooms())
}

func TestJoinErrors(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")

	send(t, h.gw, alice, ClientMessage{Type: IntentJoinRoom, RoomID: "NOPE", PlayerName: "Alice"})
	expectError(t, alice, "room_not_found")

	send(t, h.gw, alice, ClientMessage{Type: IntentJoinRoom, RoomID: "", PlayerName: "Alice"})
	expectError(t, alice, "invalid_room_code")

	send(t, h.gw, alice, ClientMessage{Type: IntentToggleReady})
	expectError(t, alice, "not_in_room")

	send(t, h.gw, alice, ClientMessage{Type: "dance"})
	expectError(t, alice, "unknown_intent")

	h.gw.Handle(alice, []byte("{not json"))
	expectError(t, alice, "invalid_message")
}

func TestJoinAndSpectate(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")
	bob := h.gw.Connect("bob")
	carol := h.gw.Connect("carol")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: "GAME", PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, bob, ClientMessage{Type: IntentJoinRoom, RoomID: "game", PlayerName: "Alice"})
	expectError(t, bob, "name_taken")

	send(t, h.gw, bob, ClientMessage{Type: IntentJoinRoom, RoomID: "game", PlayerName: "Bob"})

	update := expect(t, alice, room.EventRoomUpdate).Data.(room.RoomUpdate)
	assert.Len(t, update.Players, 2)
	expect(t, bob, room.EventRoomUpdate)

	send(t, h.gw, carol, ClientMessage{Type: IntentJoinRoomAsSpectator, RoomID: "GAME", SpectatorName: "Carol"})

	joined := expect(t, carol, room.EventSpectatorJoined).Data.(room.SpectatorJoined)
	assert.True(t, joined.IsSpectator)
	assert.Len(t, joined.Players, 2)

	update = expect(t, bob, room.EventRoomUpdate).Data.(room.RoomUpdate)
	assert.Len(t, update.Spectators, 1)

	send(t, h.gw, carol, ClientMessage{Type: IntentSubmitGuess, Guess: "cat"})
	expectError(t, carol, "wrong_phase")
}

func TestSetMaxRounds(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: "GAME", PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, alice, ClientMessage{Type: IntentSetMaxRounds})
	expectError(t, alice, "invalid_rounds")

	rounds := 3
	send(t, h.gw, alice, ClientMessage{Type: IntentSetMaxRounds, MaxRounds: &rounds})

	update := expect(t, alice, room.EventRoomUpdate).Data.(room.RoomUpdate)
	assert.Equal(t, 3, update.MaxRounds)
}

func TestPlayRound(t *testing.T) {
	h := newHarness(t)
	alice, bob := startGame(t, h)

	send(t, h.gw, alice, ClientMessage{Type: IntentSubmitPrompt, Prompt: "red car"})

	expect(t, bob, room.EventGeneratingImage)

	submitted := expect(t, bob, room.EventPromptSubmitted).Data.(room.PromptSubmitted)
	assert.Equal(t, "https://cdn.example.com/generated.png", submitted.ImageURL)
	assert.Equal(t, 30, submitted.TimeRemaining)

	send(t, h.gw, bob, ClientMessage{Type: IntentSubmitGuess, Guess: "car"})

	guess := expect(t, alice, room.EventGuessSubmitted).Data.(room.GuessSubmitted)
	assert.Equal(t, "Bob", guess.PlayerName)
	assert.Equal(t, "car", guess.Guess)

	h.tickers.tick(t, h.clock.Advance(10*time.Second))

	timer := expect(t, bob, room.EventTimer).Data.(room.TimerUpdate)
	assert.Equal(t, 20, timer.TimeRemaining)

	h.tickers.tick(t, h.clock.Advance(20*time.Second))

	ended := expect(t, alice, room.EventRoundEnded).Data.(room.RoundEnded)
	assert.Equal(t, "red car", ended.OriginalPrompt)
	require.Len(t, ended.Awards, 1)
	assert.Equal(t, "bob", ended.Awards[0].PlayerID)

	h.tickers.tick(t, h.clock.Advance(8*time.Second))

	next := expect(t, bob, room.EventNextTurn).Data.(room.TurnStarted)
	assert.Equal(t, "bob", next.CurrentPromptGiver)

	counts, err := h.gw.Usage().Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"together": 1}, counts)
	assert.Equal(t, int32(0), h.stock.calls.Load())
}

func TestErrorsGoOnlyToSender(t *testing.T) {
	h := newHarness(t)
	alice, bob := startGame(t, h)

	drain(alice)

	send(t, h.gw, bob, ClientMessage{Type: IntentSubmitPrompt, Prompt: "cat"})
	expectError(t, bob, "not_prompt_giver")

	send(t, h.gw, alice, ClientMessage{Type: IntentSubmitPrompt, Prompt: "cat"})

	select {
	case env := <-alice.Outbox():
		assert.Equal(t, room.EventGeneratingImage, env.Type)
	case <-time.After(waitFor):
		t.Fatal("no message for the prompt giver")
	}
}

func TestRandomImageUsesStock(t *testing.T) {
	h := newHarness(t)
	alice, bob := startGame(t, h)

	send(t, h.gw, alice, ClientMessage{Type: IntentSubmitPrompt, UseRandomImage: true})

	submitted := expect(t, bob, room.EventPromptSubmitted).Data.(room.PromptSubmitted)
	assert.Equal(t, "https://images.example.com/stock.jpg", submitted.ImageURL)
	assert.Equal(t, int32(0), h.gen.calls.Load())

	counts, err := h.gw.Usage().Counts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts, "stock images are free")
}

func TestPromptTimeoutUsesStock(t *testing.T) {
	h := newHarness(t)
	_, bob := startGame(t, h)

	h.tickers.tick(t, h.clock.Advance(30*time.Second))

	expect(t, bob, room.EventGeneratingImage)
	submitted := expect(t, bob, room.EventPromptSubmitted).Data.(room.PromptSubmitted)
	assert.Equal(t, "https://images.example.com/stock.jpg", submitted.ImageURL)
}

func TestGenerationFailure(t *testing.T) {
	h := newHarness(t)
	h.gen.err = assert.AnError

	alice, bob := startGame(t, h)

	send(t, h.gw, alice, ClientMessage{Type: IntentSubmitPrompt, Prompt: "red car"})

	expectError(t, alice, "generation_failed")
	expectError(t, bob, "generation_failed")

	h.gen.err = nil

	send(t, h.gw, alice, ClientMessage{Type: IntentSubmitPrompt, Prompt: "blue car"})
	expect(t, bob, room.EventPromptSubmitted)
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.RateLimit = rate.Every(time.Hour)
		o.RateBurst = 1
	})

	alice := h.gw.Connect("alice")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, alice, ClientMessage{Type: IntentToggleReady})
	expectError(t, alice, "rate_limited")
}

func TestRoomClosesWhenEmpty(t *testing.T) {
	h := newHarness(t)
	alice := h.gw.Connect("alice")
	bob := h.gw.Connect("bob")

	send(t, h.gw, alice, ClientMessage{Type: IntentCreateRoom, RoomID: "GAME", PlayerName: "Alice"})
	expect(t, alice, room.EventRoomCreated)

	send(t, h.gw, alice, ClientMessage{Type: IntentLeaveRoom})

	require.Eventually(t, func() bool { return h.gw.Rooms() == 0 }, waitFor, 10*time.Millisecond)
	assert.Empty(t, alice.RoomID())

	send(t, h.gw, bob, ClientMessage{Type: IntentJoinRoom, RoomID: "GAME", PlayerName: "Bob"})
	expectError(t, bob, "room_not_found")
}

func TestDisconnectLeavesRoom(t *testing.T) {
	h := newHarness(t)
	alice, bob := startGame(t, h)

	h.gw.Disconnect(bob)

	finished := expect(t, alice, room.EventGameFinished).Data.(room.GameFinished)
	require.NotNil(t, finished.Winner)
	assert.Equal(t, "alice", finished.Winner.ID)

	left := expect(t, alice, room.EventPlayerLeft).Data.(room.PlayerLeft)
	assert.Equal(t, "Bob", left.PlayerName)

	select {
	case <-bob.Done():
	default:
		t.Fatal("session still open")
	}

	h.gw.Disconnect(alice)

	require.Eventually(t, func() bool { return h.gw.Rooms() == 0 }, waitFor, 10*time.Millisecond)
}

func TestSlowSessionIsClosed(t *testing.T) {
	s := newSession("slow", 1, rate.NewLimiter(rate.Inf, 1))

	assert.True(t, s.deliver(Envelope{Type: "one"}))
	assert.False(t, s.deliver(Envelope{Type: "two"}))

	select {
	case <-s.Done():
	default:
		t.Fatal("slow session left open")
	}

	assert.False(t, s.deliver(Envelope{Type: "three"}))
}

func TestNormalizeRoomCode(t *testing.T) {
	code, err := NormalizeRoomCode("  ab12 ")
	require.NoError(t, err)
	assert.Equal(t, "AB12", code)

	for _, bad := range []string{"", "   ", "AB-12", "ÅB12", "ABCDEFGHIJKLM"} {
		_, err := NormalizeRoomCode(bad)
		assert.ErrorIs(t, err, room.ErrInvalidRoomCode, bad)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	h := &Hub{id: "A"}

	assert.True(t, s.Add("A", h))
	assert.False(t, s.Add("A", &Hub{id: "A"}))

	got, ok := s.Get("A")
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, 1, s.Len())

	s.Delete("A")

	_, ok = s.Get("A")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}
