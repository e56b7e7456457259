package game

import (
	"time"

	"richman_server/internal/domain"
)

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() GameState {
	s := GameState{
		ID:                 e.id,
		RoomID:             e.roomID,
		Phase:              e.phase,
		Players:            make([]Player, len(e.players)),
		CurrentPlayerIndex: e.current,
		CurrentPlayerID:    e.CurrentPlayerID(),
		RoundNumber:        e.round,
		TurnSeq:            e.turnSeq,
		HasRolled:          e.hasRolled,
		FreeParkingPot:     e.pot,
		WinnerID:           e.winnerID,
		Settings:           e.settings.clone(),
		CreatedAt:          e.createdAt,
		UpdatedAt:          e.updatedAt,
	}
	for i, p := range e.players {
		s.Players[i] = p.clone()
	}
	if e.lastDice != nil {
		d := *e.lastDice
		s.LastDice = &d
	}
	if e.lastAction != nil {
		a := *e.lastAction
		s.LastAction = &a
	}
	if e.pending != nil {
		o := *e.pending
		s.PendingOffer = &o
	}
	s.StartedAt = copyTime(e.startedAt)
	s.EndedAt = copyTime(e.endedAt)
	return s
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Stats summarizes the game for the archive.
func (e *Engine) Stats() domain.GameSummary {
	sum := domain.GameSummary{
		GameID:      e.id,
		RoomID:      e.roomID,
		Reason:      domain.EndReasonNoPlayers,
		Rounds:      e.round,
		PlayerCount: len(e.players),
		Players:     make([]domain.PlayerSummary, 0, len(e.players)),
		StartedAt:   copyTime(e.startedAt),
		EndedAt:     e.now(),
	}
	if e.endedAt != nil {
		sum.EndedAt = *e.endedAt
	}
	if e.winnerID != "" {
		w := e.winnerID
		sum.WinnerID = &w
		sum.Reason = domain.EndReasonWinner
		if p, _ := e.player(w); p != nil {
			sum.WinnerName = p.Name
		}
	}
	for _, p := range e.players {
		sum.Players = append(sum.Players, domain.PlayerSummary{
			PlayerID:         p.ID,
			DisplayName:      p.Name,
			FinalMoney:       p.Money,
			Bankrupt:         p.IsBankrupt,
			PropertiesOwned:  len(p.Properties),
			PropertiesBought: p.Stats.PropertiesBought,
			RentPaid:         p.Stats.RentPaid,
			RentCollected:    p.Stats.RentCollected,
			MoneyEarned:      p.Stats.MoneyEarned,
			HousesBuilt:      p.Stats.HousesBuilt,
			HotelsBuilt:      p.Stats.HotelsBuilt,
			TimesInJail:      p.Stats.TimesInJail,
			CardsDrawn:       p.Stats.CardsDrawn,
		})
	}
	return sum
}
