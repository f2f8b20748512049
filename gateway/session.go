/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Session is one connected client. The send channel is never closed;
// Done is closed instead once the session ends.
type Session struct {
	id      string
	send    chan Envelope
	done    chan struct{}
	once    sync.Once
	hub     atomic.Pointer[Hub]
	limiter *rate.Limiter
}

func newSession(id string, buffer int, limiter *rate.Limiter) *Session {
	return &Session{
		id:      id,
		send:    make(chan Envelope, buffer),
		done:    make(chan struct{}),
		limiter: limiter,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Outbox yields messages queued for the client.
func (s *Session) Outbox() <-chan Envelope {
	return s.send
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// RoomID returns the code of the room the session is in, if any.
func (s *Session) RoomID() string {
	if h := s.hub.Load(); h != nil {
		return h.id
	}

	return ""
}

func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// deliver queues env without blocking. A client that cannot keep up is
// closed rather than allowed to stall its room.
func (s *Session) deliver(env Envelope) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- env:
		return true
	default:
		s.Close()

		return false
	}
}
