package domain

import "time"

// PlayerProfile - карточка игрока из каталога
type PlayerProfile struct {
	ID          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url,omitempty"`
	GamesPlayed int64     `db:"games_played" json:"games_played"`
	GamesWon    int64     `db:"games_won" json:"games_won"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
