package game

import "time"

type EventType string

const (
	EventPlayerJoined        EventType = "player_joined"
	EventPlayerLeft          EventType = "player_left"
	EventGameStarted         EventType = "game_started"
	EventTurnStarted         EventType = "turn_started"
	EventTurnEnded           EventType = "turn_ended"
	EventTurnTimeout         EventType = "turn_timeout"
	EventDiceRolled          EventType = "dice_rolled"
	EventPlayerMoved         EventType = "player_moved"
	EventSalaryCollected     EventType = "salary_collected"
	EventPropertyOffered     EventType = "property_offered"
	EventPropertyBought      EventType = "property_bought"
	EventPropertyDeclined    EventType = "property_declined"
	EventRentPaid            EventType = "rent_paid"
	EventTaxPaid             EventType = "tax_paid"
	EventFreeParking         EventType = "free_parking"
	EventCardDrawn           EventType = "card_drawn"
	EventCardEffect          EventType = "card_effect"
	EventJailEntered         EventType = "jail_entered"
	EventJailExited          EventType = "jail_exited"
	EventHouseBuilt          EventType = "house_built"
	EventHotelBuilt          EventType = "hotel_built"
	EventPropertyMortgaged   EventType = "property_mortgaged"
	EventPropertyUnmortgaged EventType = "property_unmortgaged"
	EventPlayerBankrupted    EventType = "player_bankrupted"
	EventGameEnded           EventType = "game_ended"
)

// Event is one domain fact produced by an engine.
type Event struct {
	Type      EventType      `json:"type"`
	GameID    string         `json:"game_id"`
	PlayerID  string         `json:"player_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *Engine) emit(t EventType, playerID string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if playerID != "" {
		data["player_id"] = playerID
	}
	e.events = append(e.events, Event{
		Type:      t,
		GameID:    e.id,
		PlayerID:  playerID,
		Data:      data,
		Timestamp: e.now(),
	})
}

// DrainEvents returns the events produced since the previous call.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}
