package websocket

import (
	"log"
	"net/http"

	"dutytrack-backend/internal/auth"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// HandleWebSocket upgrades an HTTP connection to the live duty feed.
// Browsers cannot set headers on WebSocket requests, so the token travels
// as a query parameter here.
func HandleWebSocket(hub *Hub, tokens *auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			log.Println("❌ No token on WebSocket connection attempt")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			log.Printf("❌ Invalid token on WebSocket connection attempt: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(claims.Username, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for user: %s", claims.Username)
	}
}
