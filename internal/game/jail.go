package game

import (
	"go.uber.org/zap"

	"richman_server/internal/board"
)

// sendToJail relocates p without passing Start. The turn is over once
// the player is jailed.
func (e *Engine) sendToJail(p *Player, reason string) {
	p.Position = board.JailPosition
	p.Jail.IsInJail = true
	p.Jail.TurnsInJail = 0
	p.Jail.JailReason = reason
	p.Stats.TimesInJail++
	e.doubles = 0
	e.hasRolled = true
	e.emit(EventJailEntered, p.ID, map[string]any{"reason": reason})
	e.logger.Debug("jail entered", zap.String("player_id", p.ID), zap.String("reason", reason))
}

func (e *Engine) releaseFromJail(p *Player, method string) {
	served := p.Jail.TurnsInJail
	p.Jail.IsInJail = false
	p.Jail.TurnsInJail = 0
	p.Jail.JailReason = ""
	e.emit(EventJailExited, p.ID, map[string]any{
		"method":        method,
		"turns_in_jail": served,
	})
}

// rollInJail: doubles free the player, otherwise the turn counts as
// served. After MaxJailTurns the fine is forced and the player moves.
func (e *Engine) rollInJail(p *Player, dice DiceResult) {
	if dice.IsDouble {
		e.releaseFromJail(p, "doubles")
		e.movePlayer(p, dice.Total, landing{diceTotal: dice.Total})
		return
	}
	p.Jail.TurnsInJail++
	if p.Jail.TurnsInJail < e.settings.MaxJailTurns {
		return
	}
	if !e.payBank(p, e.settings.JailFine, "jail_fine") {
		return
	}
	e.releaseFromJail(p, "served")
	e.movePlayer(p, dice.Total, landing{diceTotal: dice.Total})
}

func (e *Engine) handlePayJailFine(p *Player) (map[string]any, error) {
	if !p.Jail.IsInJail {
		return nil, ErrNotInJail
	}
	if e.phase != PhaseJail {
		return nil, ErrWrongPhase
	}
	if p.Money < e.settings.JailFine {
		return nil, ErrInsufficientFunds
	}
	e.payBank(p, e.settings.JailFine, "jail_fine")
	e.releaseFromJail(p, "fine")
	e.phase = PhasePlayerTurn
	return map[string]any{
		"fine":  e.settings.JailFine,
		"money": p.Money,
	}, nil
}

func (e *Engine) handleUseJailCard(p *Player) (map[string]any, error) {
	if !p.Jail.IsInJail {
		return nil, ErrNotInJail
	}
	if e.phase != PhaseJail {
		return nil, ErrWrongPhase
	}
	if !p.Jail.HasGetOutOfJailCard {
		return nil, ErrNoJailCard
	}
	p.Jail.HasGetOutOfJailCard = false
	e.releaseFromJail(p, "card")
	e.phase = PhasePlayerTurn
	return map[string]any{"card_used": true}, nil
}
