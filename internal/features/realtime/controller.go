package realtime

import (
	"sync"

	"go-chms/internal/middleware"
	"go-chms/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RealtimeController struct {
	Hub    *Hub
	Logger *zap.Logger
}

func NewRealtimeController(hub *Hub, logger *zap.Logger) *RealtimeController {
	return &RealtimeController{
		Hub:    hub,
		Logger: logger,
	}
}

// HandleWebSocket upgrades the client channel and registers it with the hub.
// The connection lives until the client closes or the socket errors.
func (ctrl *RealtimeController) HandleWebSocket(c *websocket.Conn) {
	claims, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if claims == nil {
		c.Close()
		return
	}

	connID := uuid.NewString()

	// Gorilla-style conns allow one concurrent writer only
	var writeMu sync.Mutex
	conn := NewConnection(connID, claims.UserID, claims.ChurchID, claims.Role, claims.Name,
		func(data []byte) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		},
		func() error {
			return c.Close()
		},
	)

	ctrl.Hub.AddConnection(conn)
	defer ctrl.Hub.RemoveConnection(connID)

	// Drain client frames; inbound payloads are ignored, the read loop exists
	// to detect disconnects
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			ctrl.Logger.Debug("realtime connection closed",
				zap.String("connection_id", connID),
				zap.Error(err))
			break
		}
	}
}

// GetStats godoc
// @Summary Realtime connection statistics
// @Tags realtime
// @Produce json
// @Success 200 {object} ConnectionStats
// @Router /api/realtime/stats [get]
func (ctrl *RealtimeController) GetStats(c *fiber.Ctx) error {
	return c.JSON(ctrl.Hub.Stats())
}

// GetConnectedUsers godoc
// @Summary List connected users for the caller's church
// @Tags realtime
// @Produce json
// @Success 200 {array} ConnectedUser
// @Router /api/realtime/users [get]
func (ctrl *RealtimeController) GetConnectedUsers(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	return c.JSON(ctrl.Hub.ConnectedUsers(claims.ChurchID))
}
