/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package gateway connects client sessions to rooms. Each room is owned by
// a Hub goroutine; the gateway routes intents to the right hub and handles
// room creation itself.
package gateway

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Seednode/imprompt/imagegen"
	"github.com/Seednode/imprompt/room"
)

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)

	return t.C, t.Stop
}

type Options struct {
	Room room.Config

	// Generator renders submitted prompts; Stock serves random images.
	Generator         imagegen.Generator
	Stock             imagegen.Generator
	Usage             imagegen.Usage
	GenerationTimeout time.Duration

	Store        Store
	Tickers      TickerFunc
	TickInterval time.Duration
	Clock        func() time.Time

	// RateLimit and RateBurst bound how many messages a session may send.
	RateLimit  rate.Limit
	RateBurst  int
	SendBuffer int

	Logger zerolog.Logger
}

type Gateway struct {
	roomConfig        room.Config
	generator         imagegen.Generator
	stock             imagegen.Generator
	usage             imagegen.Usage
	generationTimeout time.Duration
	store             Store
	tickers           TickerFunc
	tickInterval      time.Duration
	now               func() time.Time
	limit             rate.Limit
	burst             int
	sendBuffer        int
	log               zerolog.Logger
}

func New(opts Options) *Gateway {
	g := &Gateway{
		roomConfig:        opts.Room,
		generator:         opts.Generator,
		stock:             opts.Stock,
		usage:             opts.Usage,
		generationTimeout: opts.GenerationTimeout,
		store:             opts.Store,
		tickers:           opts.Tickers,
		tickInterval:      opts.TickInterval,
		now:               opts.Clock,
		limit:             opts.RateLimit,
		burst:             opts.RateBurst,
		sendBuffer:        opts.SendBuffer,
		log:               opts.Logger,
	}

	if g.generator == nil {
		g.generator = &imagegen.Mock{}
	}

	if g.stock == nil {
		g.stock = imagegen.NewStock()
	}

	if g.usage == nil {
		g.usage = imagegen.NewMemoryUsage()
	}

	if g.generationTimeout <= 0 {
		g.generationTimeout = imagegen.DefaultTimeout
	}

	if g.store == nil {
		g.store = NewMemoryStore()
	}

	if g.tickers == nil {
		g.tickers = realTicker
	}

	if g.tickInterval <= 0 {
		g.tickInterval = time.Second
	}

	if g.now == nil {
		g.now = time.Now
	}

	if g.limit == 0 {
		g.limit = rate.Inf
	}

	if g.burst <= 0 {
		g.burst = 1
	}

	if g.sendBuffer <= 0 {
		g.sendBuffer = 64
	}

	return g
}

// Rooms returns the number of live rooms.
func (g *Gateway) Rooms() int {
	return g.store.Len()
}

// Usage returns the image generation counters.
func (g *Gateway) Usage() imagegen.Usage {
	return g.usage
}

// NewRoomCode returns a code not used by any live room.
func (g *Gateway) NewRoomCode() string {
	for {
		code := newRoomCode()

		if _, exists := g.store.Get(code); !exists {
			return code
		}
	}
}

// Connect registers a new session.
func (g *Gateway) Connect(id string) *Session {
	g.log.Debug().Str("session", id).Msg("connected")

	return newSession(id, g.sendBuffer, rate.NewLimiter(g.limit, g.burst))
}

// Disconnect removes s from its room, if any, and closes it.
func (g *Gateway) Disconnect(s *Session) {
	if h := s.hub.Load(); h != nil {
		h.submit(s, ClientMessage{Type: IntentLeaveRoom}, leaveRoom)
	}

	s.Close()

	g.log.Debug().Str("session", s.id).Msg("disconnected")
}

// Handle decodes and applies one raw message from s. Failures are reported
// to s alone.
func (g *Gateway) Handle(s *Session, data []byte) {
	if !s.limiter.Allow() {
		s.deliver(errorEnvelope(room.ErrRateLimited))

		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.deliver(errorEnvelope(errMalformed))

		return
	}

	if err := g.dispatch(s, msg); err != nil {
		g.log.Debug().Str("session", s.id).Str("intent", msg.Type).Err(err).Msg("rejected")

		s.deliver(errorEnvelope(err))
	}
}

func (g *Gateway) dispatch(s *Session, msg ClientMessage) error {
	if msg.Type == IntentCreateRoom {
		return g.createRoom(s, msg)
	}

	cmd, ok := roomCommands[msg.Type]
	if !ok {
		return room.ErrUnknownIntent
	}

	h := s.hub.Load()

	switch msg.Type {
	case IntentJoinRoom, IntentJoinRoomAsSpectator:
		if h != nil {
			return room.ErrAlreadyJoined
		}

		code, err := NormalizeRoomCode(msg.RoomID)
		if err != nil {
			return err
		}

		h, ok = g.store.Get(code)
		if !ok {
			return room.ErrRoomNotFound
		}
	default:
		if h == nil {
			return room.ErrNotInRoom
		}
	}

	h.submit(s, msg, cmd)

	return nil
}

// createRoom opens a room with s as its creator. An empty room code asks
// the server to pick one.
func (g *Gateway) createRoom(s *Session, msg ClientMessage) error {
	if s.hub.Load() != nil {
		return room.ErrAlreadyJoined
	}

	var code string

	if msg.RoomID == "" {
		code = g.NewRoomCode()
	} else {
		var err error

		code, err = NormalizeRoomCode(msg.RoomID)
		if err != nil {
			return err
		}
	}

	if _, exists := g.store.Get(code); exists {
		return room.ErrRoomExists
	}

	r := room.New(code, g.roomConfig)
	if _, err := r.AddPlayer(s.id, msg.PlayerName); err != nil {
		return err
	}

	h := newHub(g, r)
	h.attach(s)

	if !g.store.Add(code, h) {
		s.hub.CompareAndSwap(h, nil)

		return room.ErrRoomExists
	}

	s.deliver(Envelope{Type: room.EventRoomCreated, Data: r.RoomCreated()})

	h.start()

	h.log.Info().Str("session", s.id).Msg("created")

	return nil
}
