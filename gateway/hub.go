/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Seednode/imprompt/room"
)

type request struct {
	session *Session
	msg     ClientMessage
	cmd     command
	handled chan struct{}
}

// Hub owns one room. Every change to the room happens on the hub's run
// goroutine, so commands, countdown ticks and generation results are
// applied one at a time.
type Hub struct {
	id  string
	gw  *Gateway
	log zerolog.Logger

	room     *room.Room
	sessions map[string]*Session

	inbox   chan request
	results chan room.GenerationResult
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

func newHub(gw *Gateway, r *room.Room) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		id:       r.ID(),
		gw:       gw,
		log:      gw.log.With().Str("room", r.ID()).Logger(),
		room:     r,
		sessions: make(map[string]*Session),
		inbox:    make(chan request),
		results:  make(chan room.GenerationResult),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (h *Hub) start() {
	ticks, stop := h.gw.tickers(h.gw.tickInterval)

	go h.run(ticks, stop)
}

func (h *Hub) run(ticks <-chan time.Time, stop func()) {
	defer stop()
	defer h.shutdown()

	for {
		select {
		case req := <-h.inbox:
			h.handle(req)
			close(req.handled)

			if h.room.Empty() {
				return
			}

		case <-ticks:
			events, gen := h.room.Tick(h.gw.now())
			h.broadcast(events)
			h.generate(gen)

		case res := <-h.results:
			h.broadcast(h.room.ResolveGeneration(res, h.gw.now()))
		}
	}
}

// submit hands req to the hub and waits until it has been applied. If the
// room has already closed, the session is told so instead.
func (h *Hub) submit(s *Session, msg ClientMessage, cmd command) {
	req := request{
		session: s,
		msg:     msg,
		cmd:     cmd,
		handled: make(chan struct{}),
	}

	select {
	case h.inbox <- req:
	case <-h.done:
		s.hub.CompareAndSwap(h, nil)

		if msg.Type != IntentLeaveRoom {
			s.deliver(errorEnvelope(room.ErrRoomNotFound))
		}

		return
	}

	<-req.handled
}

func (h *Hub) handle(req request) {
	s := req.session

	out, err := req.cmd(h.room, s.id, req.msg, h.gw.now())
	if err != nil {
		h.log.Debug().Str("session", s.id).Str("intent", req.msg.Type).Err(err).Msg("rejected")

		s.deliver(errorEnvelope(err))

		return
	}

	h.sync(s)
	h.broadcast(out.events)
	h.generate(out.generate)
}

// sync attaches or detaches s to match its membership in the room.
func (h *Hub) sync(s *Session) {
	_, attached := h.sessions[s.id]
	member := h.room.HasMember(s.id)

	switch {
	case member && !attached:
		h.attach(s)

		h.log.Info().Str("session", s.id).Msg("joined")
	case !member && attached:
		delete(h.sessions, s.id)
		s.hub.CompareAndSwap(h, nil)

		h.log.Info().Str("session", s.id).Msg("left")
	}
}

func (h *Hub) attach(s *Session) {
	h.sessions[s.id] = s
	s.hub.Store(h)
}

func (h *Hub) broadcast(events []room.Event) {
	for _, e := range events {
		env := Envelope{Type: e.Type, Data: e.Data}

		if e.To != "" {
			if s, ok := h.sessions[e.To]; ok {
				s.deliver(env)
			}

			continue
		}

		for _, s := range h.sessions {
			s.deliver(env)
		}
	}
}

// generate runs req off the hub goroutine and posts the outcome back.
func (h *Hub) generate(req *room.GenerationRequest) {
	if req == nil {
		return
	}

	gen := h.gw.generator
	if req.Random {
		gen = h.gw.stock
	}

	go func() {
		ctx, cancel := context.WithTimeout(h.ctx, h.gw.generationTimeout)
		defer cancel()

		started := time.Now()

		url, err := gen.Generate(ctx, req.Prompt)
		if err != nil {
			h.log.Warn().Str("provider", gen.Name()).Err(err).Msg("image generation failed")
		} else {
			h.log.Info().
				Str("provider", gen.Name()).
				Bool("auto", req.AutoSubmitted).
				Dur("took", time.Since(started).Round(time.Millisecond)).
				Msg("image generated")

			if err := h.gw.usage.Track(ctx, gen.Name()); err != nil {
				h.log.Error().Err(err).Msg("tracking usage")
			}
		}

		select {
		case h.results <- room.GenerationResult{Turn: req.Turn, ImageURL: url, Err: err}:
		case <-h.done:
		}
	}()
}

func (h *Hub) shutdown() {
	h.gw.store.Delete(h.id)
	close(h.done)
	h.cancel()

	for _, s := range h.sessions {
		s.hub.CompareAndSwap(h, nil)
	}

	h.log.Info().Msg("closed")
}
