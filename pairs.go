package main

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
)

// PromptPair is one question in two wordings. Every player in a round sees
// the common variant except the odd player, who sees the odd variant.
type PromptPair struct {
	Common string `json:"common"`
	Odd    string `json:"odd"`
}

// PairSource is an immutable set of prompt pairs shared by all rooms.
type PairSource struct {
	pairs []PromptPair
}

var defaultPairs = []PromptPair{
	{Common: "Who in the group would get married first? Write one name.", Odd: "Who in the group would get married last? Write one name."},
	{Common: "Who would arrive at a party first?", Odd: "Who would arrive at a party last?"},
	{Common: "Who would finish a group assignment first?", Odd: "Who would finish a group assignment last?"},
	{Common: "Who wakes up earliest in the morning?", Odd: "Who wakes up latest in the morning?"},
	{Common: "Who would be first on stage at karaoke?", Odd: "Who would be last on stage at karaoke?"},
	{Common: "Who would survive longest on a desert island?", Odd: "Who would survive shortest on a desert island?"},
	{Common: "Who is most likely to become famous?", Odd: "Who is least likely to become famous?"},
	{Common: "Who would win a cooking competition?", Odd: "Who would lose a cooking competition?"},
	{Common: "Who replies to messages fastest?", Odd: "Who replies to messages slowest?"},
	{Common: "Who is most likely to cry at a movie?", Odd: "Who is least likely to cry at a movie?"},
	{Common: "Who would spend the most on a vacation?", Odd: "Who would spend the least on a vacation?"},
	{Common: "Who is most likely to forget a birthday?", Odd: "Who is least likely to forget a birthday?"},
	{Common: "Who would adopt the most pets?", Odd: "Who would adopt the fewest pets?"},
	{Common: "Who talks the most in a group call?", Odd: "Who talks the least in a group call?"},
	{Common: "Who is most likely to get lost in a new city?", Odd: "Who is least likely to get lost in a new city?"},
	{Common: "Who would be the best boss?", Odd: "Who would be the worst boss?"},
	{Common: "Who is most likely to win the lottery and tell no one?", Odd: "Who is most likely to win the lottery and tell everyone?"},
	{Common: "Who would eat the spiciest food?", Odd: "Who would eat the blandest food?"},
	{Common: "Who is most likely to move abroad?", Odd: "Who is least likely to move abroad?"},
	{Common: "Who would be first to fall asleep at a sleepover?", Odd: "Who would be last to fall asleep at a sleepover?"},
}

// DefaultPairSource returns the built-in question set.
func DefaultPairSource() *PairSource {
	return &PairSource{pairs: defaultPairs}
}

// LoadPairSource reads a replacement question set from a JSON array of
// {common, odd} objects.
func LoadPairSource(path string) (*PairSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pairs []PromptPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(pairs) == 0 {
		return nil, errors.New("question file contains no pairs")
	}
	for i, p := range pairs {
		if strings.TrimSpace(p.Common) == "" || strings.TrimSpace(p.Odd) == "" {
			return nil, fmt.Errorf("question pair %d is missing a variant", i)
		}
	}

	return &PairSource{pairs: pairs}, nil
}

func (s *PairSource) Len() int {
	return len(s.pairs)
}

// Pick draws one pair uniformly at random.
func (s *PairSource) Pick() PromptPair {
	return s.pairs[randomIndex(len(s.pairs))]
}

// randomIndex returns a uniform value in [0, n) from crypto/rand.
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}
