package game

import (
	"go.uber.org/zap"

	"richman_server/internal/board"
)

// landing carries the context a landing effect needs: the dice total that
// led here and any card modifiers on the rent.
type landing struct {
	diceTotal      int
	rentMultiplier int
	diceMultiplier int
}

// movePlayer advances p by steps (negative moves back) and resolves the
// space it stops on. Passing or landing on Start pays salary.
func (e *Engine) movePlayer(p *Player, steps int, l landing) {
	e.phase = PhaseMoving
	old := p.Position
	raw := old + steps
	p.Position = board.Wrap(raw)
	passedGo := steps > 0 && raw >= board.Size

	e.emit(EventPlayerMoved, p.ID, map[string]any{
		"old_position": old,
		"new_position": p.Position,
		"steps":        steps,
		"passed_go":    passedGo,
	})
	e.logger.Debug("player moved",
		zap.String("player_id", p.ID),
		zap.Int("from", old),
		zap.Int("to", p.Position))

	if passedGo {
		e.collectSalary(p)
	}
	e.resolveLanding(p, l)
}

// moveTo advances p forward until it reaches target.
func (e *Engine) moveTo(p *Player, target int, l landing) {
	steps := board.Wrap(target - p.Position)
	e.movePlayer(p, steps, l)
}

func (e *Engine) collectSalary(p *Player) {
	if e.settings.Salary <= 0 {
		return
	}
	e.credit(p, e.settings.Salary)
	e.emit(EventSalaryCollected, p.ID, map[string]any{"amount": e.settings.Salary})
}

func (e *Engine) resolveLanding(p *Player, l landing) {
	space, found := board.SpaceAt(p.Position)
	if !found {
		return
	}
	switch space.Type {
	case board.SpaceProperty, board.SpaceRailroad, board.SpaceUtility:
		e.landOnProperty(p, space, l)
	case board.SpaceTax:
		e.landOnTax(p, space)
	case board.SpaceChance, board.SpaceCommunityChest:
		e.landOnCard(p, space, l)
	case board.SpaceGoToJail:
		e.sendToJail(p, "go_to_jail_space")
	case board.SpaceFreeParking:
		e.landOnFreeParking(p)
	}
}

func (e *Engine) landOnProperty(p *Player, space board.Space, l landing) {
	owner, own := e.ownerOf(space.ID)
	if owner == nil {
		e.phase = PhasePropertyAction
		e.pending = &PendingOffer{PropertyID: space.ID, Price: space.Price}
		e.emit(EventPropertyOffered, p.ID, map[string]any{
			"property_id":   space.ID,
			"property_name": space.Name,
			"price":         space.Price,
			"can_afford":    p.Money >= space.Price,
		})
		return
	}
	if owner == p || own.IsMortgaged {
		return
	}

	rent := CalculateRent(space, owner.Properties, l.diceTotal)
	switch {
	case space.Type == board.SpaceUtility && l.diceMultiplier > 0:
		rent = l.diceTotal * l.diceMultiplier
	case l.rentMultiplier > 1:
		rent *= l.rentMultiplier
	}
	if rent <= 0 {
		return
	}

	if e.pay(p, owner, rent, "rent") {
		p.Stats.RentPaid += rent
		owner.Stats.RentCollected += rent
		e.emit(EventRentPaid, p.ID, map[string]any{
			"payer_id":    p.ID,
			"owner_id":    owner.ID,
			"amount":      rent,
			"property_id": space.ID,
		})
		e.logger.Debug("rent paid",
			zap.String("payer_id", p.ID),
			zap.String("owner_id", owner.ID),
			zap.Int("amount", rent))
	}
}

func (e *Engine) landOnTax(p *Player, space board.Space) {
	amount := space.TaxAmount
	if space.IncomeTax && e.settings.IncomeTaxRate > 0 {
		if pct := int(float64(p.Money) * e.settings.IncomeTaxRate); pct < amount {
			amount = pct
		}
	}
	if e.payBank(p, amount, "tax") {
		e.emit(EventTaxPaid, p.ID, map[string]any{
			"amount":      amount,
			"property_id": space.ID,
			"space_name":  space.Name,
		})
	}
}

func (e *Engine) landOnFreeParking(p *Player) {
	amount := e.settings.FreeParkingBonus
	if e.settings.EnableHouseRules {
		amount += e.pot
		e.pot = 0
	}
	if amount <= 0 {
		return
	}
	e.credit(p, amount)
	e.emit(EventFreeParking, p.ID, map[string]any{"amount": amount})
}

func (e *Engine) landOnCard(p *Player, space board.Space, l landing) {
	kind, found := board.DeckFor(space.Type)
	if !found {
		return
	}
	e.phase = PhaseCardDrawing
	card := e.drawCard(kind, l.diceTotal)
	p.Stats.CardsDrawn++
	e.emit(EventCardDrawn, p.ID, map[string]any{
		"card_id":     card.ID,
		"deck":        card.Deck,
		"title":       card.Title,
		"description": card.Description,
	})
	e.logger.Debug("card drawn", zap.String("player_id", p.ID), zap.String("card_id", card.ID))
	e.applyCard(p, card, l)
}

// applyCard interprets a card effect. Moves re-enter the landing pipeline;
// payments go through the same bankruptcy path as rent.
func (e *Engine) applyCard(p *Player, card board.Card, l landing) {
	eff := card.Effect
	e.emit(EventCardEffect, p.ID, map[string]any{
		"card_id": card.ID,
		"kind":    eff.Kind,
		"effect":  eff,
	})

	switch eff.Kind {
	case board.EffectMoveTo:
		e.moveTo(p, eff.Position, landing{diceTotal: l.diceTotal})
	case board.EffectMoveRelative:
		e.movePlayer(p, eff.Steps, landing{diceTotal: l.diceTotal})
	case board.EffectMoveToNearest:
		target, found := board.NearestOfType(p.Position, eff.Nearest)
		if !found {
			return
		}
		e.moveTo(p, target, landing{
			diceTotal:      l.diceTotal,
			rentMultiplier: eff.RentMultiplier,
			diceMultiplier: eff.DiceMultiplier,
		})
	case board.EffectGainMoney:
		e.credit(p, eff.Amount)
	case board.EffectLoseMoney:
		e.payBank(p, eff.Amount, "card")
	case board.EffectGoToJail:
		e.sendToJail(p, "card")
	case board.EffectGetOutOfJailCard:
		p.Jail.HasGetOutOfJailCard = true
	case board.EffectPayForBuildings:
		houses, hotels := buildings(p)
		e.payBank(p, houses*eff.PerHouse+hotels*eff.PerHotel, "card")
	case board.EffectCollectFromPlayers:
		for _, other := range e.players {
			if e.IsOver() {
				return
			}
			if other == p || other.IsBankrupt {
				continue
			}
			e.pay(other, p, eff.Amount, "card")
		}
	default:
		e.logger.Warn("unknown card effect", zap.String("card_id", card.ID), zap.String("kind", string(eff.Kind)))
	}
}

func buildings(p *Player) (houses, hotels int) {
	for _, own := range p.Properties {
		if own.HasHotel {
			hotels++
		} else {
			houses += own.Houses
		}
	}
	return houses, hotels
}
