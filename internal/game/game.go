package game

import "time"

// Phase - фаза партии
type Phase string

const (
	PhaseWaiting        Phase = "WAITING"
	PhaseStarting       Phase = "STARTING"
	PhasePlayerTurn     Phase = "PLAYER_TURN"
	PhaseDiceRolling    Phase = "DICE_ROLLING"
	PhaseMoving         Phase = "MOVING"
	PhasePropertyAction Phase = "PROPERTY_ACTION"
	PhaseCardDrawing    Phase = "CARD_DRAWING"
	PhaseJail           Phase = "JAIL"
	PhaseGameOver       Phase = "GAME_OVER"
)

// Active reports whether turns are being played.
func (p Phase) Active() bool {
	return p != PhaseWaiting && p != PhaseStarting && p != PhaseGameOver
}

type PropertyOwnership struct {
	PropertyID    int       `json:"property_id"`
	PurchasePrice int       `json:"purchase_price"`
	Houses        int       `json:"houses"`
	HasHotel      bool      `json:"has_hotel"`
	IsMortgaged   bool      `json:"is_mortgaged"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

type JailStatus struct {
	IsInJail            bool   `json:"is_in_jail"`
	TurnsInJail         int    `json:"turns_in_jail"`
	HasGetOutOfJailCard bool   `json:"has_get_out_of_jail_card"`
	JailReason          string `json:"jail_reason,omitempty"`
}

// PlayerStats - накопительная статистика игрока за партию
type PlayerStats struct {
	MoneyEarned      int `json:"money_earned"`
	RentPaid         int `json:"rent_paid"`
	RentCollected    int `json:"rent_collected"`
	PropertiesBought int `json:"properties_bought"`
	HousesBuilt      int `json:"houses_built"`
	HotelsBuilt      int `json:"hotels_built"`
	TimesInJail      int `json:"times_in_jail"`
	CardsDrawn       int `json:"cards_drawn"`
	DiceRolls        int `json:"dice_rolls"`
}

type Player struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Money      int                 `json:"money"`
	Position   int                 `json:"position"`
	Properties []PropertyOwnership `json:"properties"`
	Jail       JailStatus          `json:"jail"`
	IsBankrupt bool                `json:"is_bankrupt"`
	IsActive   bool                `json:"is_active"`
	Stats      PlayerStats         `json:"stats"`
	JoinedAt   time.Time           `json:"joined_at"`
}

func (p *Player) property(id int) *PropertyOwnership {
	for i := range p.Properties {
		if p.Properties[i].PropertyID == id {
			return &p.Properties[i]
		}
	}
	return nil
}

func (p *Player) clone() Player {
	c := *p
	c.Properties = append([]PropertyOwnership(nil), p.Properties...)
	return c
}

type DiceResult struct {
	Dice1    int       `json:"dice1"`
	Dice2    int       `json:"dice2"`
	Total    int       `json:"total"`
	IsDouble bool      `json:"is_double"`
	RolledAt time.Time `json:"rolled_at"`
}

// LastAction - последнее принятое действие
type LastAction struct {
	PlayerID string     `json:"player_id"`
	Type     ActionType `json:"type"`
	At       time.Time  `json:"at"`
}

// PendingOffer is the unowned space the current player may buy.
type PendingOffer struct {
	PropertyID int `json:"property_id"`
	Price      int `json:"price"`
}

// GameState is a deep copy of an engine, safe to share across goroutines.
type GameState struct {
	ID                 string        `json:"id"`
	RoomID             string        `json:"room_id"`
	Phase              Phase         `json:"phase"`
	Players            []Player      `json:"players"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	CurrentPlayerID    string        `json:"current_player_id,omitempty"`
	RoundNumber        int           `json:"round_number"`
	TurnSeq            uint64        `json:"turn_seq"`
	LastDice           *DiceResult   `json:"last_dice,omitempty"`
	LastAction         *LastAction   `json:"last_action,omitempty"`
	PendingOffer       *PendingOffer `json:"pending_offer,omitempty"`
	HasRolled          bool          `json:"has_rolled"`
	FreeParkingPot     int           `json:"free_parking_pot"`
	WinnerID           string        `json:"winner_id,omitempty"`
	Settings           Settings      `json:"settings"`
	CreatedAt          time.Time     `json:"created_at"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	EndedAt            *time.Time    `json:"ended_at,omitempty"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Player returns the player with the given id from the snapshot.
func (s *GameState) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
