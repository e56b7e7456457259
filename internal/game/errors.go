package game

import "errors"

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrWrongPhase        = errors.New("action not allowed in current phase")
	ErrPlayerNotFound    = errors.New("player not in game")
	ErrPropertyOwned     = errors.New("property already owned")
	ErrNotPurchasable    = errors.New("property not available for purchase")
	ErrMissingProperty   = errors.New("property_id required")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotInJail         = errors.New("player is not in jail")
	ErrNoJailCard        = errors.New("no get out of jail card")
	ErrGameFull          = errors.New("game is full")
	ErrAlreadyJoined     = errors.New("player already in game")
	ErrGameStarted       = errors.New("game already started")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrUnknownAction     = errors.New("unknown action")
	ErrNotOwner          = errors.New("property not owned by player")
	ErrCannotBuild       = errors.New("cannot build on property")
	ErrMortgaged         = errors.New("property is mortgaged")
	ErrNotMortgaged      = errors.New("property is not mortgaged")
	ErrAlreadyRolled     = errors.New("dice already rolled this turn")
	ErrMustRoll          = errors.New("roll the dice before ending the turn")
	ErrGameOver          = errors.New("game is over")
	ErrInternal          = errors.New("internal error")
)
