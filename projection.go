package main

// PublicState is the redacted view of a room broadcast to every member.
// Submission and vote text never appear here; they travel only in the
// dedicated reveal/results events.
type PublicState struct {
	Code        string      `json:"code"`
	HostID      string      `json:"hostId"`
	Players     []Player    `json:"players"`
	Status      Stage       `json:"status"`
	Round       int         `json:"round"`
	Submitted   int         `json:"submitted"`
	Voted       int         `json:"voted"`
	Pair        *PromptPair `json:"pair"`
	OddPlayerID string      `json:"oddPlayerId,omitempty"`
	LastResults *Results    `json:"lastResults"`
}

// projectLocked builds the public view under the room mutex. The pair is
// hidden while answers are being written, and the odd player's identity is
// withheld until the reveal or results stage.
func (r *Room) projectLocked() PublicState {
	players := make([]Player, 0, len(r.players))
	submitted, voted := 0, 0
	for _, p := range r.players {
		players = append(players, *p)
		if !p.Connected {
			continue
		}
		if _, ok := r.submissions[p.ID]; ok {
			submitted++
		}
		if _, ok := r.votes[p.ID]; ok {
			voted++
		}
	}

	state := PublicState{
		Code:        r.code,
		HostID:      r.hostID,
		Players:     players,
		Status:      r.stage,
		Round:       r.round,
		Submitted:   submitted,
		Voted:       voted,
		LastResults: r.lastResults,
	}

	if r.stage != StageSubmit {
		state.Pair = r.pair
	}
	if r.stage == StageReveal || r.stage == StageResults {
		state.OddPlayerID = r.oddPlayerID
	}

	return state
}

// Snapshot returns the current public view of the room.
func (r *Room) Snapshot() PublicState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projectLocked()
}
