package service

import (
	"context"
	"errors"

	"richman_server/internal/game"
	"richman_server/internal/repository"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrPlayerNotInGame     = errors.New("player not in any game")
	ErrPlayerInAnotherGame = errors.New("player already in another game")
	ErrManagerClosed       = errors.New("game manager closed")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrGameNotFound, "game_not_found"},
	{ErrPlayerNotInGame, "player_not_in_game"},
	{ErrPlayerInAnotherGame, "player_in_another_game"},
	{ErrManagerClosed, "unavailable"},
	{game.ErrNotYourTurn, "not_your_turn"},
	{game.ErrWrongPhase, "wrong_phase"},
	{game.ErrPlayerNotFound, "player_not_found"},
	{game.ErrPropertyOwned, "property_owned"},
	{game.ErrNotPurchasable, "not_purchasable"},
	{game.ErrMissingProperty, "missing_property_id"},
	{game.ErrInsufficientFunds, "insufficient_funds"},
	{game.ErrNotInJail, "not_in_jail"},
	{game.ErrNoJailCard, "no_jail_card"},
	{game.ErrGameFull, "game_full"},
	{game.ErrAlreadyJoined, "already_joined"},
	{game.ErrGameStarted, "game_started"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrUnknownAction, "unknown_action"},
	{game.ErrNotOwner, "not_owner"},
	{game.ErrCannotBuild, "cannot_build"},
	{game.ErrMortgaged, "mortgaged"},
	{game.ErrNotMortgaged, "not_mortgaged"},
	{game.ErrAlreadyRolled, "already_rolled"},
	{game.ErrMustRoll, "must_roll"},
	{game.ErrGameOver, "game_over"},
	{game.ErrInternal, "internal"},
	{repository.ErrNotFound, "not_found"},
	{context.DeadlineExceeded, "timeout"},
}

// ErrorCode maps manager and engine errors to stable wire codes. Unknown
// errors map to "internal".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
