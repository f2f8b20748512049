/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"crypto/rand"
	"sync"
)

// Store indexes live hubs by room code.
type Store interface {
	Get(code string) (*Hub, bool)
	// Add registers h under code unless the code is already taken.
	Add(code string, h *Hub) bool
	Delete(code string)
	Len() int
}

type MemoryStore struct {
	mu   sync.RWMutex
	hubs map[string]*Hub
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hubs: make(map[string]*Hub)}
}

func (m *MemoryStore) Get(code string) (*Hub, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.hubs[code]

	return h, ok
}

func (m *MemoryStore) Add(code string, h *Hub) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.hubs[code]; exists {
		return false
	}

	m.hubs[code] = h

	return true
}

func (m *MemoryStore) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hubs, code)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.hubs)
}

const (
	roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength  = 6
)

// newRoomCode returns a crypto-random code. It does not check for
// collisions; see Gateway.NewRoomCode.
func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	for i := range buf {
		buf[i] = roomCodeLetters[int(buf[i])%len(roomCodeLetters)]
	}

	return string(buf)
}
