package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"richman_server/internal/board"
	"richman_server/internal/game"
	"richman_server/internal/service"
)

type createGameRequest struct {
	RoomID   string         `json:"room_id"`
	Settings *game.Settings `json:"settings"`
	PlayerID string         `json:"player_id"`
}

// CreateGame creates a game and, when player_id is given, seats the creator.
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	ctx := c.Request.Context()
	id, err := h.Games.CreateGame(ctx, req.RoomID, req.Settings)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.PlayerID != "" {
		if err := h.Games.JoinGame(ctx, id, req.PlayerID); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"game_id": id})
}

type playerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

func (h *Handler) JoinGame(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id required"})
		return
	}
	gameID := c.Param("id")
	if err := h.Games.JoinGame(c.Request.Context(), gameID, req.PlayerID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": gameID, "player_id": req.PlayerID})
}

type startRequest struct {
	HostID string `json:"host_id"`
}

func (h *Handler) StartGame(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	ctx := c.Request.Context()
	gameID := c.Param("id")
	if err := h.Games.StartGame(ctx, gameID, req.HostID); err != nil {
		writeError(c, err)
		return
	}
	st, err := h.Games.GetGameState(ctx, gameID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) GameState(c *gin.Context) {
	st, err := h.Games.GetGameState(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) GameSummary(c *gin.Context) {
	sum, err := h.Games.ArchivedSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type actionRequest struct {
	Type game.ActionType `json:"type" binding:"required"`
	Data map[string]any  `json:"data"`
}

// PlayerAction routes one action. Rule rejections are 200 with
// success=false; only routing failures are errors.
func (h *Handler) PlayerAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action type required"})
		return
	}
	res, err := h.Games.HandlePlayerAction(c.Request.Context(), c.Param("id"), game.Action{Type: req.Type, Data: req.Data})
	if err != nil {
		writeError(c, err)
		return
	}
	body := gin.H{"success": res.Success}
	if res.Result != nil {
		body["result"] = res.Result
	}
	if res.Message != "" {
		body["message"] = res.Message
	}
	if res.Err != nil {
		body["code"] = service.ErrorCode(res.Err)
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) LeaveGame(c *gin.Context) {
	if err := h.Games.LeaveGame(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

func (h *Handler) Status(c *gin.Context) {
	st := h.Games.Status()
	c.JSON(http.StatusOK, gin.H{
		"active_games":    st.ActiveGames,
		"total_games":     st.TotalGames,
		"players_in_game": st.PlayersInGame,
		"archived_games":  st.ArchivedGames,
		"uptime":          st.Uptime.Round(time.Second).String(),
		"games":           st.Games,
	})
}

// Board serves the static board so game snapshots can stay small.
func (h *Handler) Board(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"spaces": board.Spaces(),
		"groups": board.Groups(),
		"size":   board.Size,
	})
}
