package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/tubely-service/internal/apperr"
	"github.com/princekumarofficial/tubely-service/internal/utils/jwt"
	"github.com/princekumarofficial/tubely-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/tubely-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// browsers cannot set headers on the upgrade request, so the token in
	// the query string is the credential; origin is not checked
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades an authenticated connection and registers it
// for video.updated events.
// @Summary      Subscribe to video events
// @Description  Opens a WebSocket that receives video.updated events for the caller's videos
// @Tags         events
// @Param        token query string true "Access token"
// @Success      101
// @Failure      401 {object} response.Response
// @Router       /ws [get]
func WebSocketHandler(hub *wsClient.Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			response.WriteError(w, apperr.Unauthorized("token required", nil))
			return
		}

		userID, err := jwt.ValidateJWT(token, jwtSecret)
		if err != nil {
			slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
			response.WriteError(w, apperr.Unauthorized("invalid token", err))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, userID, hub)
		if !hub.RegisterClient(client) {
			conn.Close()
			return
		}
		client.Start()
	}
}
