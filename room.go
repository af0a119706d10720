package main

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Stage is the phase a room's current round is in. It only ever moves
// forward through lobby → submit → reveal → vote → results, then back to
// submit when the next round starts.
type Stage string

const (
	StageLobby   Stage = "lobby"
	StageSubmit  Stage = "submit"
	StageReveal  Stage = "reveal"
	StageVote    Stage = "vote"
	StageResults Stage = "results"
)

var (
	ErrRoomNotFound        = errors.New("Room not found")
	ErrGameAlreadyStarted  = errors.New("Game already started")
	ErrNotHost             = errors.New("Only host can start")
	ErrInsufficientPlayers = errors.New("Need more players")
	ErrNotAcceptingAnswers = errors.New("Not accepting answers now")
	ErrEmptyAnswer         = errors.New("Empty answer")
	ErrNotAcceptingVotes   = errors.New("Not accepting votes now")
	ErrInvalidTarget       = errors.New("Invalid target")
	ErrNotInRoom           = errors.New("Not in this room")
)

const maxNameLength = 32

// Player is one participant. Its id is the transport connection id and
// doubles as the player's identity for the room's lifetime; a disconnect is
// permanent for that identity.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// Results is the outcome of a completed vote.
type Results struct {
	Tally       map[string]int `json:"tally"`
	Correct     bool           `json:"correct"`
	OddPlayerID string         `json:"oddPlayerId"`
}

// Event is a message produced by a room operation for the transport to
// deliver: to one connection when To is set, otherwise to the whole room.
type Event struct {
	To      string
	Name    string
	Payload any
}

type promptPayload struct {
	Prompt string `json:"prompt"`
	IsOdd  bool   `json:"isOdd"`
}

type revealAnswer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

type revealPayload struct {
	Pair    PromptPair     `json:"pair"`
	Answers []revealAnswer `json:"answers"`
}

// Room is one active game session. All mutation goes through its methods,
// each of which runs to completion under the room mutex, so submissions and
// votes arriving from many sockets are processed strictly one at a time.
type Room struct {
	mu sync.Mutex

	code    string
	hostID  string
	players []*Player // join order, never shrinks
	stage   Stage
	round   int

	oddPlayerID string
	pair        *PromptPair
	submissions map[string]string
	votes       map[string]string
	lastResults *Results

	pairs        *PairSource
	minPlayers   int
	maxAnswerLen int

	createdAt  time.Time
	lastActive time.Time
}

func newRoom(code, hostID, hostName string, pairs *PairSource, minPlayers, maxAnswerLen int) *Room {
	now := time.Now()
	r := &Room{
		code:         code,
		hostID:       hostID,
		stage:        StageLobby,
		submissions:  make(map[string]string),
		votes:        make(map[string]string),
		pairs:        pairs,
		minPlayers:   minPlayers,
		maxAnswerLen: maxAnswerLen,
		createdAt:    now,
		lastActive:   now,
	}
	r.players = append(r.players, &Player{
		ID:        hostID,
		Name:      cleanName(hostName, "Host"),
		Connected: true,
	})
	return r
}

func cleanName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

func (r *Room) Code() string {
	return r.code
}

// MemberIDs returns every player id ever admitted, join order.
func (r *Room) MemberIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Idle reports whether the room has no connected players and has seen no
// activity since the cutoff. Used by the registry reaper.
func (r *Room) Idle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.Connected {
			return false
		}
	}
	return r.lastActive.Before(cutoff)
}

func (r *Room) playerLocked(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) connectedIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (r *Room) touchLocked() {
	r.lastActive = time.Now()
}

func (r *Room) updateEventLocked() Event {
	return Event{Name: "room:update", Payload: r.projectLocked()}
}

func (r *Room) updateEvent() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateEventLocked()
}

// Join adds a new player while the room is still in the lobby. Membership is
// closed once a round starts; duplicate names are permitted.
func (r *Room) Join(connID, name string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageLobby {
		return nil, ErrGameAlreadyStarted
	}

	if p := r.playerLocked(connID); p != nil {
		// Same socket joining twice is a no-op refresh.
		p.Connected = true
	} else {
		r.players = append(r.players, &Player{
			ID:        connID,
			Name:      cleanName(name, "Player"),
			Connected: true,
		})
	}
	r.touchLocked()

	return []Event{r.updateEventLocked()}, nil
}

// Leave marks the requester disconnected. Idempotent; unknown requesters are
// a no-op.
func (r *Room) Leave(connID string) []Event {
	events, _ := r.MarkDisconnected(connID)
	return events
}

// StartRound begins a new round: picks the odd player and a prompt pair,
// resets per-round state, and produces one private prompt per connected
// player. Only the host may start, and only with enough connected players.
func (r *Room) StartRound(connID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if connID != r.hostID {
		return nil, ErrNotHost
	}

	active := r.connectedIDsLocked()
	if len(active) < r.minPlayers {
		return nil, ErrInsufficientPlayers
	}

	r.round++
	r.submissions = make(map[string]string)
	r.votes = make(map[string]string)
	r.lastResults = nil
	r.oddPlayerID = active[randomIndex(len(active))]
	pair := r.pairs.Pick()
	r.pair = &pair
	r.stage = StageSubmit
	r.touchLocked()

	events := make([]Event, 0, len(active)+1)
	for _, id := range active {
		isOdd := id == r.oddPlayerID
		prompt := pair.Common
		if isOdd {
			prompt = pair.Odd
		}
		events = append(events, Event{
			To:      id,
			Name:    "round:prompt",
			Payload: promptPayload{Prompt: prompt, IsOdd: isOdd},
		})
	}
	events = append(events, r.updateEventLocked())

	return events, nil
}

// SubmitAnswer records the requester's answer, overwriting any earlier one
// this round. When every currently-connected player has submitted, the room
// advances to reveal and the full answer list is broadcast. The quorum is
// re-evaluated against the connected set at call time, so a player who
// disconnects without answering stops blocking progression.
func (r *Room) SubmitAnswer(connID, answer string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playerLocked(connID) == nil {
		return nil, ErrNotInRoom
	}
	if r.stage != StageSubmit {
		return nil, ErrNotAcceptingAnswers
	}

	text := strings.TrimSpace(answer)
	if text == "" {
		return nil, ErrEmptyAnswer
	}
	if len(text) > r.maxAnswerLen {
		text = text[:r.maxAnswerLen]
	}

	r.submissions[connID] = text
	r.touchLocked()

	active := r.connectedIDsLocked()
	for _, id := range active {
		if _, ok := r.submissions[id]; !ok {
			return []Event{r.updateEventLocked()}, nil
		}
	}

	r.stage = StageReveal

	answers := make([]revealAnswer, 0, len(active))
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		answers = append(answers, revealAnswer{
			PlayerID: p.ID,
			Name:     p.Name,
			Text:     r.submissions[p.ID],
		})
	}

	return []Event{
		{Name: "round:reveal", Payload: revealPayload{Pair: *r.pair, Answers: answers}},
		r.updateEventLocked(),
	}, nil
}

// CastVote records the requester's vote for who holds the odd prompt. The
// first vote during reveal moves the room to the vote stage; votes outside
// reveal/vote are rejected. When every currently-connected player has voted,
// the round is scored and the room advances to results.
func (r *Room) CastVote(connID, targetID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playerLocked(connID) == nil {
		return nil, ErrNotInRoom
	}
	if r.stage != StageReveal && r.stage != StageVote {
		return nil, ErrNotAcceptingVotes
	}
	if r.playerLocked(targetID) == nil {
		return nil, ErrInvalidTarget
	}

	r.stage = StageVote
	r.votes[connID] = targetID
	r.touchLocked()

	active := r.connectedIDsLocked()
	for _, id := range active {
		if _, ok := r.votes[id]; !ok {
			return []Event{r.updateEventLocked()}, nil
		}
	}

	results := r.scoreRoundLocked()
	r.lastResults = results
	r.stage = StageResults

	return []Event{
		{Name: "round:results", Payload: results},
		r.updateEventLocked(),
	}, nil
}

// scoreRoundLocked tallies votes from connected voters, picks the most-voted
// target (ties broken by lowest join index), and awards points: everyone but
// the odd player scores when the group is right, the odd player alone scores
// when it is wrong.
func (r *Room) scoreRoundLocked() *Results {
	tally := make(map[string]int)
	for _, id := range r.connectedIDsLocked() {
		if target, ok := r.votes[id]; ok {
			tally[target]++
		}
	}

	winner := ""
	best := 0
	for _, p := range r.players {
		if count := tally[p.ID]; count > best {
			winner = p.ID
			best = count
		}
	}

	correct := winner == r.oddPlayerID
	if correct {
		for _, p := range r.players {
			if p.Connected && p.ID != r.oddPlayerID {
				p.Score++
			}
		}
	} else if odd := r.playerLocked(r.oddPlayerID); odd != nil {
		odd.Score++
	}

	return &Results{
		Tally:       tally,
		Correct:     correct,
		OddPlayerID: r.oddPlayerID,
	}
}

// MarkDisconnected flags the player gone and reassigns the host role to the
// first connected player in join order if needed. Runs regardless of stage;
// the second return value reports whether the id was a member at all.
func (r *Room) MarkDisconnected(connID string) ([]Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(connID)
	if p == nil {
		return nil, false
	}
	p.Connected = false
	r.touchLocked()

	if connID == r.hostID {
		for _, next := range r.players {
			if next.Connected {
				r.hostID = next.ID
				break
			}
		}
	}

	return []Event{r.updateEventLocked()}, true
}
