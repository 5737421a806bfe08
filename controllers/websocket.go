package controllers

import (
	"feeadmin_go/config"
	"feeadmin_go/database"
	"feeadmin_go/models"
	"feeadmin_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

type wsClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// validateToken checks the query-string JWT and returns the active user
func (wsc *WebSocketController) validateToken(tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &wsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*wsClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	var user models.User
	if err := database.DB.Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Handler returns the Fiber handler for GET /ws?token=JWT
func (wsc *WebSocketController) Handler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		token := c.Query("token")
		if token == "" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		user, err := wsc.validateToken(token)
		if err != nil {
			logrus.WithError(err).Debug("WebSocket connection rejected")
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		wsc.hub.ServeFiberWS(c, user.ID)
	})
}

// GetStats returns connection statistics (admin only)
func (wsc *WebSocketController) GetStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wsc.hub.GetClientCount(),
		"status":            "active",
	})
}
