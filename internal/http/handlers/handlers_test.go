package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"richman_server/internal/domain"
	"richman_server/internal/game"
	"richman_server/internal/repository"
	"richman_server/internal/service"
)

type apiFixture struct {
	r       *gin.Engine
	m       *service.GameManager
	dir     *repository.MemoryDirectory
	archive *repository.MemoryArchive
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := repository.NewMemoryDirectory()
	archive := repository.NewMemoryArchive(dir)
	m := service.NewGameManager(service.ManagerOptions{
		Logger:        zaptest.NewLogger(t),
		Archive:       archive,
		Directory:     dir,
		Seed:          11,
		EngineOptions: []game.Option{game.WithDice(game.NewScriptedDice([2]int{1, 2}))},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Close(ctx)
	})

	h := NewHandler(m, dir, archive)
	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/games", h.CreateGame)
	api.GET("/games/:id", h.GameState)
	api.POST("/games/:id/join", h.JoinGame)
	api.POST("/games/:id/start", h.StartGame)
	api.GET("/games/:id/summary", h.GameSummary)
	api.PUT("/players/:id", h.PutPlayer)
	api.GET("/players/:id", h.GetPlayer)
	api.GET("/players/:id/games", h.PlayerGames)
	api.POST("/players/:id/actions", h.PlayerAction)
	api.POST("/players/:id/leave", h.LeaveGame)
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/status", h.Status)
	api.GET("/board", h.Board)

	return &apiFixture{r: r, m: m, dir: dir, archive: archive}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestRESTGameLifecycle(t *testing.T) {
	f := newAPI(t)

	w, out := f.do(t, http.MethodPost, "/api/v1/games", gin.H{"room_id": "r1", "player_id": "alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gameID, _ := out["game_id"].(string)
	require.NotEmpty(t, gameID)

	w, _ = f.do(t, http.MethodPost, "/api/v1/games/"+gameID+"/start", gin.H{"host_id": "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/games/"+gameID+"/join", gin.H{"player_id": "bob"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, out = f.do(t, http.MethodPost, "/api/v1/games/"+gameID+"/start", gin.H{"host_id": "alice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(game.PhasePlayerTurn), out["phase"])
	current, _ := out["current_player_id"].(string)
	require.NotEmpty(t, current)
	other := "alice"
	if current == "alice" {
		other = "bob"
	}

	w, out = f.do(t, http.MethodPost, "/api/v1/players/"+other+"/actions", gin.H{"type": game.ActionRollDice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "not_your_turn", out["code"])

	w, out = f.do(t, http.MethodPost, "/api/v1/players/"+current+"/actions", gin.H{"type": game.ActionRollDice})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["success"], out)

	w, out = f.do(t, http.MethodGet, "/api/v1/games/"+gameID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(game.PhasePropertyAction), out["phase"])

	w, out = f.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["active_games"])
	assert.EqualValues(t, 2, out["players_in_game"])

	// the other player leaves, which forfeits and ends the game
	w, _ = f.do(t, http.MethodPost, "/api/v1/players/"+other+"/leave", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		w, _ := f.do(t, http.MethodGet, "/api/v1/games/"+gameID+"/summary", nil)
		return w.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	_, out = f.do(t, http.MethodGet, "/api/v1/games/"+gameID+"/summary", nil)
	assert.Equal(t, current, out["winner_id"])

	w, out = f.do(t, http.MethodGet, "/api/v1/players/"+current+"/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["games"], 1)
}

func TestRESTNotFound(t *testing.T) {
	f := newAPI(t)

	w, out := f.do(t, http.MethodGet, "/api/v1/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "game_not_found", out["code"])

	w, _ = f.do(t, http.MethodPost, "/api/v1/games/missing/join", gin.H{"player_id": "alice"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out = f.do(t, http.MethodPost, "/api/v1/players/ghost/actions", gin.H{"type": game.ActionRollDice})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "player_not_in_game", out["code"])

	w, _ = f.do(t, http.MethodGet, "/api/v1/games/missing/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/v1/players/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRESTBadRequests(t *testing.T) {
	f := newAPI(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/games/x/join", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/players/alice/actions", gin.H{"data": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPut, "/api/v1/players/alice", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRESTPlayersAndLeaderboard(t *testing.T) {
	f := newAPI(t)

	w, out := f.do(t, http.MethodPut, "/api/v1/players/alice", gin.H{"display_name": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", out["display_name"])

	f.do(t, http.MethodPut, "/api/v1/players/bob", gin.H{"display_name": "Bob"})
	winner := "bob"
	started := time.Now().Add(-time.Minute)
	require.NoError(t, f.archive.Save(context.Background(), domain.GameSummary{
		GameID:    "g-1",
		WinnerID:  &winner,
		Reason:    domain.EndReasonWinner,
		StartedAt: &started,
		EndedAt:   time.Now(),
		Players: []domain.PlayerSummary{
			{PlayerID: "alice", Bankrupt: true},
			{PlayerID: "bob"},
		},
	}))

	w, out = f.do(t, http.MethodGet, "/api/v1/players/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	player, _ := out["player"].(map[string]any)
	assert.EqualValues(t, 1, player["games_played"])
	assert.EqualValues(t, 0, player["games_won"])

	w, out = f.do(t, http.MethodGet, "/api/v1/leaderboard?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	top, _ := out["leaderboard"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "bob", top[0].(map[string]any)["id"])
}

func TestBoard(t *testing.T) {
	f := newAPI(t)
	w, out := f.do(t, http.MethodGet, "/api/v1/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 40, out["size"])
	assert.Len(t, out["spaces"], 40)
	assert.Len(t, out["groups"], 10)
}

func TestHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewHealthHandler("test", nil)
	broken := NewHealthHandler("test", map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return errors.New("refused") }),
	})

	cases := []struct {
		name    string
		handler gin.HandlerFunc
		want    int
	}{
		{"liveness", healthy.Liveness, http.StatusOK},
		{"readiness", healthy.Readiness, http.StatusOK},
		{"health", healthy.Health, http.StatusOK},
		{"broken readiness", broken.Readiness, http.StatusServiceUnavailable},
		{"broken health", broken.Health, http.StatusServiceUnavailable},
		{"broken liveness", broken.Liveness, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", tc.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}
