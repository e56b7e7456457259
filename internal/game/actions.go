package game

import (
	"encoding/json"
	"strconv"
)

type ActionType string

const (
	ActionRollDice           ActionType = "ROLL_DICE"
	ActionBuyProperty        ActionType = "BUY_PROPERTY"
	ActionDeclineProperty    ActionType = "DECLINE_PROPERTY"
	ActionBuildHouse         ActionType = "BUILD_HOUSE"
	ActionBuildHotel         ActionType = "BUILD_HOTEL"
	ActionMortgageProperty   ActionType = "MORTGAGE_PROPERTY"
	ActionUnmortgageProperty ActionType = "UNMORTGAGE_PROPERTY"
	ActionPayJailFine        ActionType = "PAY_JAIL_FINE"
	ActionUseJailCard        ActionType = "USE_GET_OUT_OF_JAIL_CARD"
	ActionEndTurn            ActionType = "END_TURN"
)

// Action is what a player submits. Data carries action specific
// arguments such as property_id.
type Action struct {
	Type ActionType     `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// ActionResult is the outcome of ProcessPlayerAction. Err is kept for
// callers that branch with errors.Is and never serialized.
type ActionResult struct {
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
	Err     error          `json:"-"`
}

func succeed(result map[string]any) ActionResult {
	return ActionResult{Success: true, Result: result}
}

func reject(err error) ActionResult {
	return ActionResult{Success: false, Message: err.Error(), Err: err}
}

// PropertyID extracts data.property_id. Numbers arrive as float64 from
// JSON, as json.Number or as strings from other adapters.
func (a Action) PropertyID() (int, bool) {
	raw, found := a.Data["property_id"]
	if !found {
		raw, found = a.Data["propertyId"]
	}
	if !found {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), v == float64(int(v))
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func (a Action) requirePropertyID() (int, error) {
	id, found := a.PropertyID()
	if !found {
		return 0, ErrMissingProperty
	}
	return id, nil
}
