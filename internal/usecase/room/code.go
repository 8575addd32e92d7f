package usecase_room

import (
	"math/rand/v2"
	"strings"

	"github.com/humanbelnik/scrumpoker/internal/model"
)

const (
	// No 0/O or 1/I.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 5
)

func randomCode() model.RoomCode {
	var builder strings.Builder
	builder.Grow(CodeLength)

	for range CodeLength {
		builder.WriteByte(CodeAlphabet[rand.IntN(len(CodeAlphabet))])
	}

	return model.RoomCode(builder.String())
}
