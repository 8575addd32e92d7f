package model

import "github.com/samber/lo"

type Vote string

const VoteCoffee Vote = "☕"

var validVotes = []Vote{
	VoteCoffee, "?", "0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100",
}

// ValidVotes returns the closed vote deck in display order.
func ValidVotes() []Vote {
	return append([]Vote(nil), validVotes...)
}

func (v Vote) Valid() bool {
	return lo.Contains(validVotes, v)
}
