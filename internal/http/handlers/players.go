package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"richman_server/internal/domain"
)

type profileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	AvatarURL   string `json:"avatar_url"`
}

// PutPlayer creates or renames a directory entry.
func (h *Handler) PutPlayer(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "display_name required"})
		return
	}
	ctx := c.Request.Context()
	p := &domain.PlayerProfile{
		ID:          c.Param("id"),
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}
	if err := h.Players.Upsert(ctx, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save player"})
		return
	}
	if h.Cache != nil {
		_ = h.Cache.Invalidate(ctx, p.ID)
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPlayer(c *gin.Context) {
	p, err := h.Players.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"player": p}
	if gameID, ok := h.Games.GameIDForPlayer(p.ID); ok {
		resp["game_id"] = gameID
	}
	c.JSON(http.StatusOK, resp)
}

// PlayerGames lists the player's archived games, newest first.
func (h *Handler) PlayerGames(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	games, err := h.History.ListByPlayer(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get games"})
		return
	}
	if games == nil {
		games = []*domain.GameSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	top, err := h.Players.TopByWins(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if top == nil {
		top = []*domain.PlayerProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
