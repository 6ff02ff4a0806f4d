package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"staybook/internal/domain"
	"staybook/internal/middleware"
	"staybook/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	loggerf  func(format string, args ...interface{})
}

func NewHandler(hub *Hub, allowedOrigin string, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		loggerf: loggerf,
	}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/feed", middleware.Require(domain.ActionViewAdminFeed), h.Feed)
}

// Feed upgrades to a websocket and streams events until the client hangs up.
// The read loop only drains control frames; this is a push-only channel.
func (h *Handler) Feed(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "UPGRADE_FAILED", "websocket upgrade failed")
		return
	}

	h.hub.Register(userID, conn)
	h.loggerf("level=info msg=feed client connected user_id=%d online=%d", userID, h.hub.OnlineCount())

	defer func() {
		h.hub.Unregister(userID)
		h.loggerf("level=info msg=feed client disconnected user_id=%d", userID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
