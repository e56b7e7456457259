package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"richman_server/internal/domain"
	"richman_server/internal/game"
	"richman_server/internal/repository"
	"richman_server/internal/service"
)

// PlayerStore is the player directory the REST layer edits.
type PlayerStore interface {
	Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error)
	Upsert(ctx context.Context, p *domain.PlayerProfile) error
	TopByWins(ctx context.Context, limit int) ([]*domain.PlayerProfile, error)
}

// HistoryStore lists archived games.
type HistoryStore interface {
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameSummary, error)
}

// Invalidator drops cached profiles after edits.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

type Handler struct {
	Games   *service.GameManager
	Players PlayerStore
	History HistoryStore
	Cache   Invalidator
}

func NewHandler(games *service.GameManager, players PlayerStore, history HistoryStore) *Handler {
	return &Handler{Games: games, Players: players, History: history}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrPlayerNotInGame),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPlayerInAnotherGame),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrGameStarted),
		errors.Is(err, game.ErrNotEnoughPlayers):
		return http.StatusConflict
	case errors.Is(err, service.ErrManagerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case service.ErrorCode(err) == "internal":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error": err.Error(),
		"code":  service.ErrorCode(err),
	})
}
