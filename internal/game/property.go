package game

import (
	"fmt"

	"go.uber.org/zap"

	"richman_server/internal/board"
)

func (e *Engine) handleBuy(p *Player, action Action) (map[string]any, error) {
	id, hasID := action.PropertyID()
	if hasID {
		if owner, _ := e.ownerOf(id); owner != nil {
			return nil, ErrPropertyOwned
		}
	}
	if e.phase != PhasePropertyAction || e.pending == nil {
		return nil, ErrWrongPhase
	}
	if !hasID {
		id = e.pending.PropertyID
	}
	if id != e.pending.PropertyID || !board.IsPurchasable(id) {
		return nil, ErrNotPurchasable
	}
	space, _ := board.SpaceAt(id)
	if p.Money < space.Price {
		return nil, ErrInsufficientFunds
	}

	p.Money -= space.Price
	p.Properties = append(p.Properties, PropertyOwnership{
		PropertyID:    id,
		PurchasePrice: space.Price,
		AcquiredAt:    e.now(),
	})
	p.Stats.PropertiesBought++
	e.pending = nil
	e.phase = PhasePlayerTurn

	e.emit(EventPropertyBought, p.ID, map[string]any{
		"property_id":   id,
		"property_name": space.Name,
		"price":         space.Price,
	})
	e.logger.Debug("property bought", zap.String("player_id", p.ID), zap.Int("property_id", id))
	return map[string]any{
		"property_id": id,
		"price":       space.Price,
		"money":       p.Money,
	}, nil
}

func (e *Engine) handleDecline(p *Player) (map[string]any, error) {
	if e.phase != PhasePropertyAction || e.pending == nil {
		return nil, ErrWrongPhase
	}
	id := e.pending.PropertyID
	e.declineOffer(p)
	e.phase = PhasePlayerTurn
	return map[string]any{"property_id": id}, nil
}

// declineOffer leaves the pending space with the bank.
func (e *Engine) declineOffer(p *Player) {
	if e.pending == nil {
		return
	}
	e.emit(EventPropertyDeclined, p.ID, map[string]any{"property_id": e.pending.PropertyID})
	e.pending = nil
}

// buildable checks the rules shared by houses and hotels and returns the
// player's holding, the space and its group.
func (e *Engine) buildable(p *Player, action Action) (*PropertyOwnership, board.Space, board.PropertyGroup, error) {
	if e.phase != PhasePlayerTurn && e.phase != PhaseJail {
		return nil, board.Space{}, board.PropertyGroup{}, ErrWrongPhase
	}
	id, err := action.requirePropertyID()
	if err != nil {
		return nil, board.Space{}, board.PropertyGroup{}, err
	}
	own := p.property(id)
	if own == nil {
		return nil, board.Space{}, board.PropertyGroup{}, ErrNotOwner
	}
	space, _ := board.SpaceAt(id)
	group, found := board.GroupOf(id)
	if space.Type != board.SpaceProperty || !found {
		return nil, space, group, fmt.Errorf("%w: only streets take buildings", ErrCannotBuild)
	}
	if !holdsAll(p.Properties, group.Properties) {
		return nil, space, group, fmt.Errorf("%w: whole color group required", ErrCannotBuild)
	}
	for _, gid := range group.Properties {
		if p.property(gid).IsMortgaged {
			return nil, space, group, ErrMortgaged
		}
	}
	return own, space, group, nil
}

// level counts a hotel as one step above four houses.
func level(own *PropertyOwnership) int {
	if own.HasHotel {
		return board.MaxHouses + 1
	}
	return own.Houses
}

func (e *Engine) groupMinLevel(p *Player, group board.PropertyGroup) int {
	lowest := board.MaxHouses + 1
	for _, id := range group.Properties {
		if own := p.property(id); own != nil {
			lowest = min(lowest, level(own))
		}
	}
	return lowest
}

func (e *Engine) handleBuildHouse(p *Player, action Action) (map[string]any, error) {
	own, space, group, err := e.buildable(p, action)
	if err != nil {
		return nil, err
	}
	if own.HasHotel || own.Houses >= board.MaxHouses {
		return nil, fmt.Errorf("%w: no room for another house", ErrCannotBuild)
	}
	if e.settings.evenBuilding() && own.Houses > e.groupMinLevel(p, group) {
		return nil, fmt.Errorf("%w: build evenly across the group", ErrCannotBuild)
	}
	if p.Money < space.HouseCost {
		return nil, ErrInsufficientFunds
	}

	p.Money -= space.HouseCost
	own.Houses++
	p.Stats.HousesBuilt++
	e.emit(EventHouseBuilt, p.ID, map[string]any{
		"property_id": space.ID,
		"houses":      own.Houses,
		"cost":        space.HouseCost,
	})
	return map[string]any{
		"property_id": space.ID,
		"houses":      own.Houses,
		"money":       p.Money,
	}, nil
}

func (e *Engine) handleBuildHotel(p *Player, action Action) (map[string]any, error) {
	own, space, group, err := e.buildable(p, action)
	if err != nil {
		return nil, err
	}
	if own.HasHotel || own.Houses < board.MaxHouses {
		return nil, fmt.Errorf("%w: four houses required", ErrCannotBuild)
	}
	if e.settings.evenBuilding() && e.groupMinLevel(p, group) < board.MaxHouses {
		return nil, fmt.Errorf("%w: build evenly across the group", ErrCannotBuild)
	}
	if p.Money < space.HotelCost {
		return nil, ErrInsufficientFunds
	}

	p.Money -= space.HotelCost
	own.Houses = 0
	own.HasHotel = true
	p.Stats.HotelsBuilt++
	e.emit(EventHotelBuilt, p.ID, map[string]any{
		"property_id": space.ID,
		"cost":        space.HotelCost,
	})
	return map[string]any{
		"property_id": space.ID,
		"has_hotel":   true,
		"money":       p.Money,
	}, nil
}

func (e *Engine) mortgageable(p *Player, action Action) (*PropertyOwnership, board.Space, error) {
	switch e.phase {
	case PhasePlayerTurn, PhasePropertyAction, PhaseJail:
	default:
		return nil, board.Space{}, ErrWrongPhase
	}
	id, err := action.requirePropertyID()
	if err != nil {
		return nil, board.Space{}, err
	}
	own := p.property(id)
	if own == nil {
		return nil, board.Space{}, ErrNotOwner
	}
	space, _ := board.SpaceAt(id)
	return own, space, nil
}

func (e *Engine) handleMortgage(p *Player, action Action) (map[string]any, error) {
	own, space, err := e.mortgageable(p, action)
	if err != nil {
		return nil, err
	}
	if own.IsMortgaged {
		return nil, ErrMortgaged
	}
	if group, found := board.GroupOf(space.ID); found {
		for _, id := range group.Properties {
			if o := p.property(id); o != nil && level(o) > 0 {
				return nil, fmt.Errorf("%w: sell buildings in the group first", ErrCannotBuild)
			}
		}
	}

	own.IsMortgaged = true
	p.Money += space.MortgageValue
	e.emit(EventPropertyMortgaged, p.ID, map[string]any{
		"property_id": space.ID,
		"amount":      space.MortgageValue,
	})
	return map[string]any{
		"property_id": space.ID,
		"amount":      space.MortgageValue,
		"money":       p.Money,
	}, nil
}

// UnmortgageCost is the mortgage value plus 10% interest.
func UnmortgageCost(space board.Space) int {
	return space.MortgageValue + space.MortgageValue/10
}

func (e *Engine) handleUnmortgage(p *Player, action Action) (map[string]any, error) {
	own, space, err := e.mortgageable(p, action)
	if err != nil {
		return nil, err
	}
	if !own.IsMortgaged {
		return nil, ErrNotMortgaged
	}
	cost := UnmortgageCost(space)
	if p.Money < cost {
		return nil, ErrInsufficientFunds
	}

	p.Money -= cost
	own.IsMortgaged = false
	e.emit(EventPropertyUnmortgaged, p.ID, map[string]any{
		"property_id": space.ID,
		"cost":        cost,
	})
	return map[string]any{
		"property_id": space.ID,
		"cost":        cost,
		"money":       p.Money,
	}, nil
}
