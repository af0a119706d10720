// Package games holds design notes for the games served by this binary.
package games

// One player secretly receives a differently-worded prompt than everyone else ("the odd one")
// All players submit a short text answer to the prompt they were shown
// Answers are revealed simultaneously, then the group votes on who received the odd prompt
// If the group picks the odd player, everyone else gains a point; otherwise the odd player gains one

// Round lifecycle:
// lobby -> submit -> reveal -> vote -> results -> submit (next round)

// Implementation details:
// - One websocket per player; requests are acked, room updates pushed
// - Private prompts delivered per-player at round start, never broadcast
// - Stage advances when every currently-connected player has acted
// - Host role passes to the next connected player in join order on disconnect

// How to play
// - One player creates a room and shares the four-character code (or QR)
// - At least four connected players are needed to start a round
// - Answer the question you are shown, read everyone's answers, then vote
// - Scores accumulate across rounds for the life of the room
