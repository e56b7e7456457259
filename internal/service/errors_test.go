package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"richman_server/internal/game"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrGameNotFound, "game_not_found"},
		{fmt.Errorf("join: %w", ErrPlayerInAnotherGame), "player_in_another_game"},
		{game.ErrNotYourTurn, "not_your_turn"},
		{game.ErrMustRoll, "must_roll"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorCode(tc.err), "%v", tc.err)
	}
}
