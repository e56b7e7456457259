package game

import (
	"go.uber.org/zap"

	"richman_server/internal/board"
)

// CalculateRent returns what a visitor owes on space given the owner's
// holdings. diceTotal matters only for utilities.
func CalculateRent(space board.Space, holdings []PropertyOwnership, diceTotal int) int {
	own := findHolding(holdings, space.ID)
	if own == nil || own.IsMortgaged {
		return 0
	}

	switch space.Type {
	case board.SpaceProperty:
		if len(space.Rent) <= board.Hotel {
			return 0
		}
		if own.HasHotel {
			return space.Rent[board.Hotel]
		}
		if own.Houses > 0 {
			return space.Rent[min(own.Houses, board.MaxHouses)]
		}
		base := space.Rent[0]
		if g, found := board.GroupOf(space.ID); found && holdsAll(holdings, g.Properties) {
			return base * g.MonopolyRentMultiplier
		}
		return base
	case board.SpaceRailroad:
		n := countInGroup(holdings, board.GroupRailroad)
		if n == 0 || len(space.Rent) == 0 {
			return 0
		}
		return space.Rent[0] << (n - 1)
	case board.SpaceUtility:
		n := countInGroup(holdings, board.GroupUtility)
		if n == 0 || len(space.Multipliers) == 0 {
			return 0
		}
		return diceTotal * space.Multipliers[min(n, len(space.Multipliers))-1]
	}
	return 0
}

func findHolding(holdings []PropertyOwnership, id int) *PropertyOwnership {
	for i := range holdings {
		if holdings[i].PropertyID == id {
			return &holdings[i]
		}
	}
	return nil
}

func holdsAll(holdings []PropertyOwnership, ids []int) bool {
	for _, id := range ids {
		if findHolding(holdings, id) == nil {
			return false
		}
	}
	return len(ids) > 0
}

func countInGroup(holdings []PropertyOwnership, group string) int {
	n := 0
	for _, h := range holdings {
		if s, _ := board.SpaceAt(h.PropertyID); s.Group == group {
			n++
		}
	}
	return n
}

// ownerOf finds who holds property id. Ownership lives only on players.
func (e *Engine) ownerOf(id int) (*Player, *PropertyOwnership) {
	for _, p := range e.players {
		if own := p.property(id); own != nil {
			return p, own
		}
	}
	return nil, nil
}

func (e *Engine) credit(p *Player, amount int) {
	if amount <= 0 {
		return
	}
	p.Money += amount
	p.Stats.MoneyEarned += amount
}

// pay moves amount from debtor to creditor (nil means the bank). When the
// debtor cannot cover it they go bankrupt and pay reports false.
func (e *Engine) pay(debtor, creditor *Player, amount int, reason string) bool {
	if amount <= 0 {
		return true
	}
	if debtor.Money >= amount {
		debtor.Money -= amount
		if creditor != nil {
			e.credit(creditor, amount)
		}
		return true
	}
	e.bankrupt(debtor, creditor, reason, amount)
	return false
}

// payBank is pay to the bank; with house rules the money feeds the
// free parking pot.
func (e *Engine) payBank(p *Player, amount int, reason string) bool {
	if !e.pay(p, nil, amount, reason) {
		return false
	}
	if e.settings.EnableHouseRules {
		e.pot += amount
	}
	return true
}

// bankrupt takes p out of the game. Remaining cash goes to a player
// creditor, properties go back to the bank.
func (e *Engine) bankrupt(p, creditor *Player, reason string, owed int) {
	if p.IsBankrupt {
		return
	}
	remaining := p.Money
	creditorID := ""
	if creditor != nil {
		creditorID = creditor.ID
		e.credit(creditor, remaining)
	} else if e.settings.EnableHouseRules && reason != "forfeit" {
		e.pot += remaining
	}

	released := make([]int, 0, len(p.Properties))
	for _, own := range p.Properties {
		released = append(released, own.PropertyID)
	}

	p.Money = 0
	p.Properties = []PropertyOwnership{}
	p.IsBankrupt = true
	p.IsActive = false
	p.Jail.IsInJail = false
	p.Jail.TurnsInJail = 0
	if e.currentPlayer() == p {
		e.pending = nil
	}

	e.emit(EventPlayerBankrupted, p.ID, map[string]any{
		"creditor_id":         creditorID,
		"reason":              reason,
		"amount_owed":         owed,
		"remaining_cash":      remaining,
		"released_properties": released,
	})
	e.logger.Info("player bankrupt",
		zap.String("player_id", p.ID),
		zap.String("creditor_id", creditorID),
		zap.String("reason", reason),
		zap.Int("owed", owed))

	e.checkWin()
}

// checkWin ends the game once at most one solvent player is left.
func (e *Engine) checkWin() {
	if !e.phase.Active() {
		return
	}
	var last *Player
	active := 0
	for _, p := range e.players {
		if !p.IsBankrupt {
			active++
			last = p
		}
	}
	if active > 1 {
		return
	}
	e.finish(last)
}

func (e *Engine) finish(winner *Player) {
	e.timer.Stop()
	e.phase = PhaseGameOver
	e.pending = nil
	now := e.now()
	e.endedAt = &now

	data := map[string]any{
		"end_time":     now,
		"round_number": e.round,
	}
	if winner != nil {
		e.winnerID = winner.ID
		data["winner_id"] = winner.ID
		data["winner_name"] = winner.Name
	} else {
		data["winner_id"] = ""
		data["winner_name"] = ""
	}
	e.emit(EventGameEnded, "", data)
	e.logger.Info("game over", zap.String("winner_id", e.winnerID), zap.Int("rounds", e.round))
}
