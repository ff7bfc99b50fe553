package handlers

import (
	"errors"
	"fmt"
	"log"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/schedulrhq/schedulr/configs"
	"github.com/schedulrhq/schedulr/websocket"
)

// ServeDashboard upgrades a host's dashboard connection. The first client
// message must be an auth message carrying a valid JWT; the subscribed host
// id comes from the token claims, never from client-supplied input.
func ServeDashboard(conn *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := conn.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = conn.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		conn.Close()
		return
	}

	hostID, err := hostIDFromToken(authMsg.Token)
	if err != nil {
		log.Printf("Dashboard auth failed: %v", err)
		_ = conn.WriteJSON(fiber.Map{"error": "Invalid token"})
		conn.Close()
		return
	}

	client := &websocket.Client{HostID: hostID, Conn: conn}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		conn.Close()
	}()

	// Events flow one way, server to client; reads only detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func hostIDFromToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("token carries no user id")
	}
	return uuid.Parse(raw)
}
