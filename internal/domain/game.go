package domain

import "time"

// GameEndReason - почему игра завершилась
type GameEndReason string

const (
	EndReasonWinner    GameEndReason = "winner"
	EndReasonNoPlayers GameEndReason = "no_players"
	EndReasonIdle      GameEndReason = "idle"
	EndReasonShutdown  GameEndReason = "shutdown"
)

// PlayerSummary - итоги одного игрока в партии
type PlayerSummary struct {
	PlayerID         string `json:"player_id"`
	DisplayName      string `json:"display_name"`
	FinalMoney       int    `json:"final_money"`
	Bankrupt         bool   `json:"bankrupt"`
	PropertiesOwned  int    `json:"properties_owned"`
	PropertiesBought int    `json:"properties_bought"`
	RentPaid         int    `json:"rent_paid"`
	RentCollected    int    `json:"rent_collected"`
	MoneyEarned      int    `json:"money_earned"`
	HousesBuilt      int    `json:"houses_built"`
	HotelsBuilt      int    `json:"hotels_built"`
	TimesInJail      int    `json:"times_in_jail"`
	CardsDrawn       int    `json:"cards_drawn"`
}

// GameSummary - запись архива о сыгранной партии
type GameSummary struct {
	ID          int64           `db:"id" json:"id"`
	GameID      string          `db:"game_id" json:"game_id"`
	RoomID      string          `db:"room_id" json:"room_id"`
	WinnerID    *string         `db:"winner_id" json:"winner_id,omitempty"`
	WinnerName  string          `db:"winner_name" json:"winner_name,omitempty"`
	Reason      GameEndReason   `db:"reason" json:"reason"`
	Rounds      int             `db:"rounds" json:"rounds"`
	PlayerCount int             `db:"player_count" json:"player_count"`
	Players     []PlayerSummary `db:"players" json:"players"`
	StartedAt   *time.Time      `db:"started_at" json:"started_at,omitempty"`
	EndedAt     time.Time       `db:"ended_at" json:"ended_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Duration - длительность партии, 0 если игра не начиналась
func (s *GameSummary) Duration() time.Duration {
	if s.StartedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(*s.StartedAt)
}
