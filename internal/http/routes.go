package http

import (
	"richman_server/internal/http/handlers"
	"richman_server/internal/http/middleware"
	"richman_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router hands out to handlers.
type Deps struct {
	API           *handlers.Handler
	Health        *handlers.HealthHandler
	Hub           *ws.Hub
	AllowedOrigin string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.CORS(d.AllowedOrigin))
	r.Use(middleware.RequestMetrics())

	// Health checks
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket transport
	r.GET("/ws", ws.HandleWS(d.Hub, d.AllowedOrigin))

	v1 := r.Group("/api/v1")
	registerAPIRoutes(v1, d.API)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	// Games
	games := api.Group("/games")
	{
		games.POST("", h.CreateGame)
		games.GET("/:id", h.GameState)
		games.POST("/:id/join", h.JoinGame)
		games.POST("/:id/start", h.StartGame)
		games.GET("/:id/summary", h.GameSummary)
	}

	// Players
	players := api.Group("/players")
	{
		players.PUT("/:id", h.PutPlayer)
		players.GET("/:id", h.GetPlayer)
		players.GET("/:id/games", h.PlayerGames)
		players.POST("/:id/actions", h.PlayerAction)
		players.POST("/:id/leave", h.LeaveGame)
	}

	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/status", h.Status)
	api.GET("/board", h.Board)
}
