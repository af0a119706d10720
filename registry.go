package main

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"
)

const codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry maps room codes to rooms for one server process. Rooms whose
// members have all disconnected are reaped after a grace period.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	pairs       *PairSource
	minPlayers  int
	maxAnswer   int
	codeLength  int
	roomTimeout time.Duration
}

func NewRegistry(cfg *Config, pairs *PairSource) *Registry {
	reg := &Registry{
		rooms:       make(map[string]*Room),
		pairs:       pairs,
		minPlayers:  cfg.minPlayers,
		maxAnswer:   cfg.maxAnswerLength,
		codeLength:  cfg.codeLength,
		roomTimeout: cfg.roomTimeout,
	}
	if reg.roomTimeout > 0 {
		go reg.reaperLoop()
	}
	return reg
}

// newRoomCode generates a crypto-random code and ensures it doesn't collide
// with a currently-registered room.
func (reg *Registry) newRoomCode() string {
	for {
		buf := make([]byte, reg.codeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, reg.codeLength)
		for i := range out {
			out[i] = codeLetters[int(buf[i])%len(codeLetters)]
		}
		code := string(out)

		reg.mu.Lock()
		_, exists := reg.rooms[code]
		reg.mu.Unlock()

		if !exists {
			return code
		}
	}
}

// Create registers a new lobby room with the requester as sole player and
// host.
func (reg *Registry) Create(connID, name string) (*Room, []Event) {
	code := reg.newRoomCode()
	room := newRoom(code, connID, name, reg.pairs, reg.minPlayers, reg.maxAnswer)

	reg.mu.Lock()
	reg.rooms[code] = room
	reg.mu.Unlock()

	return room, []Event{room.updateEvent()}
}

// Get looks up a room; codes are matched case-insensitively.
func (reg *Registry) Get(code string) (*Room, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))

	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	return room, ok
}

// RoomEvents pairs a room with events to deliver to it.
type RoomEvents struct {
	Room   *Room
	Events []Event
}

// Disconnect marks the connection gone in every room it belongs to,
// reassigning hosts as needed, and returns the resulting updates per room.
func (reg *Registry) Disconnect(connID string) []RoomEvents {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.Unlock()

	var out []RoomEvents
	for _, room := range rooms {
		if events, ok := room.MarkDisconnected(connID); ok {
			out = append(out, RoomEvents{Room: room, Events: events})
		}
	}
	return out
}

// reaperLoop periodically removes rooms with no connected players that have
// been idle longer than roomTimeout.
func (reg *Registry) reaperLoop() {
	ticker := time.NewTicker(reg.roomTimeout / 2)
	for range ticker.C {
		reg.reap(time.Now().Add(-reg.roomTimeout))
	}
}

func (reg *Registry) reap(cutoff time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for code, room := range reg.rooms {
		if room.Idle(cutoff) {
			delete(reg.rooms, code)
		}
	}
}
