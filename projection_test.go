package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionInLobby(t *testing.T) {
	r := makeRoom(t, 4)
	state := r.Snapshot()

	assert.Equal(t, "ABCD", state.Code)
	assert.Equal(t, StageLobby, state.Status)
	assert.Equal(t, "p1", state.HostID)
	assert.Nil(t, state.Pair)
	assert.Empty(t, state.OddPlayerID)
	assert.Nil(t, state.LastResults)
	require.Len(t, state.Players, 4)
	assert.Equal(t, "p1", state.Players[0].ID, "players listed in join order")
}

func TestProjectionHidesPairDuringSubmit(t *testing.T) {
	r := makeRoom(t, 4)
	startRound(t, r)
	submitAll(t, r, "p1", "p2")

	state := r.Snapshot()
	assert.Equal(t, StageSubmit, state.Status)
	assert.Nil(t, state.Pair)
	assert.Empty(t, state.OddPlayerID)
	assert.Equal(t, 2, state.Submitted)
}

func TestProjectionNeverCarriesAnswerText(t *testing.T) {
	r := makeRoom(t, 4)
	startRound(t, r)
	_, err := r.SubmitAnswer("p1", "extremely secret answer")
	require.NoError(t, err)

	raw, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "extremely secret answer")
}

func TestProjectionRevealsPairAndOddAfterSubmitQuorum(t *testing.T) {
	r := makeRoom(t, 4)
	startRound(t, r)
	submitAll(t, r, "p1", "p2", "p3", "p4")

	state := r.Snapshot()
	assert.Equal(t, StageReveal, state.Status)
	require.NotNil(t, state.Pair)
	assert.Equal(t, r.pair.Common, state.Pair.Common)
	assert.Equal(t, r.oddPlayerID, state.OddPlayerID)
}

func TestProjectionHidesOddDuringVote(t *testing.T) {
	r := makeRoom(t, 4)
	startRound(t, r)
	submitAll(t, r, "p1", "p2", "p3", "p4")
	_, err := r.CastVote("p1", "p2")
	require.NoError(t, err)

	state := r.Snapshot()
	assert.Equal(t, StageVote, state.Status)
	assert.NotNil(t, state.Pair)
	assert.Empty(t, state.OddPlayerID, "odd player stays secret until results")
	assert.Equal(t, 1, state.Voted)
}

func TestProjectionAtResults(t *testing.T) {
	r := makeRoom(t, 4)
	startRound(t, r)
	submitAll(t, r, "p1", "p2", "p3", "p4")
	r.oddPlayerID = "p1"
	castVotes(t, r, map[string]string{
		"p1": "p2", "p2": "p1", "p3": "p1", "p4": "p1",
	})

	state := r.Snapshot()
	assert.Equal(t, StageResults, state.Status)
	assert.Equal(t, "p1", state.OddPlayerID)
	require.NotNil(t, state.LastResults)
	assert.True(t, state.LastResults.Correct)
}

func TestProjectionCopiesPlayers(t *testing.T) {
	r := makeRoom(t, 4)
	state := r.Snapshot()

	state.Players[0].Score = 99
	assert.Equal(t, 0, r.playerLocked("p1").Score)
}
