package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		minPlayers:      4,
		maxAnswerLength: 80,
		codeLength:      4,
	}
}

func TestCreateRegistersRoom(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	room, events := reg.Create("c1", "Alice")
	require.NotNil(t, room)
	require.Len(t, events, 1)
	assert.Equal(t, "room:update", events[0].Name)

	state := room.Snapshot()
	assert.Equal(t, StageLobby, state.Status)
	assert.Equal(t, "c1", state.HostID)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "Alice", state.Players[0].Name)

	got, ok := reg.Get(room.Code())
	require.True(t, ok)
	assert.Same(t, room, got)
}

func TestGetNormalizesCode(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())
	room, _ := reg.Create("c1", "Alice")

	lower := "  " + room.Code() + " "
	got, ok := reg.Get(lower)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = reg.Get("ZZZZZZ")
	assert.False(t, ok)
}

func TestRoomCodeFormat(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room, _ := reg.Create(fmt.Sprintf("c%d", i), "Host")
		code := room.Code()

		require.Len(t, code, 4)
		for _, ch := range code {
			assert.Contains(t, codeLetters, string(ch))
		}
		assert.False(t, seen[code], "codes must be unique among registered rooms")
		seen[code] = true
	}
}

func TestDisconnectSpansRooms(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	roomA, _ := reg.Create("host-a", "Ana")
	roomB, _ := reg.Create("host-b", "Ben")
	_, err := roomA.Join("shared", "Sam")
	require.NoError(t, err)
	_, err = roomB.Join("shared", "Sam")
	require.NoError(t, err)

	updates := reg.Disconnect("shared")
	assert.Len(t, updates, 2)

	for _, room := range []*Room{roomA, roomB} {
		for _, p := range room.Snapshot().Players {
			if p.ID == "shared" {
				assert.False(t, p.Connected)
			}
		}
	}

	// Connections that belong to no room produce nothing.
	assert.Empty(t, reg.Disconnect("stranger"))
}

func TestDisconnectReassignsHost(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	room, _ := reg.Create("h1", "Host")
	_, err := room.Join("p2", "Second")
	require.NoError(t, err)

	reg.Disconnect("h1")
	assert.Equal(t, "p2", room.Snapshot().HostID)
}

func TestReapRemovesAbandonedRooms(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	dead, _ := reg.Create("gone", "Loner")
	live, _ := reg.Create("here", "Keeper")

	reg.Disconnect("gone")
	dead.mu.Lock()
	dead.lastActive = time.Now().Add(-time.Hour)
	dead.mu.Unlock()

	reg.reap(time.Now().Add(-30 * time.Minute))

	_, ok := reg.Get(dead.Code())
	assert.False(t, ok, "fully-disconnected idle rooms are removed")
	_, ok = reg.Get(live.Code())
	assert.True(t, ok, "rooms with connected players survive")
}

func TestReapKeepsRecentlyAbandonedRooms(t *testing.T) {
	reg := NewRegistry(testConfig(), testPairs())

	room, _ := reg.Create("gone", "Loner")
	reg.Disconnect("gone")

	reg.reap(time.Now().Add(-30 * time.Minute))

	_, ok := reg.Get(room.Code())
	assert.True(t, ok, "grace period applies before reaping")
}
