package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/chat"
	"github.com/virasat-labs/heritage-archive/internal/repository"
)

// ChatHandler upgrades accepted collaborators onto the websocket relay.
type ChatHandler struct {
	Hub     *chat.Hub
	Collabs *repository.CollaborationRepo
}

func NewChatHandler(hub *chat.Hub, collabs *repository.CollaborationRepo) *ChatHandler {
	return &ChatHandler{Hub: hub, Collabs: collabs}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is delegated to the frontend deployment; tokens are
	// already required to reach this handler.
	CheckOrigin: func(*http.Request) bool { return true },
}

type inboundChatMsg struct {
	Body string `json:"body"`
}

// Connect handles GET /api/chat/ws?peer=.  The caller must hold an
// accepted collaboration with the peer; otherwise the upgrade is denied
// before it happens.
func (h *ChatHandler) Connect(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	peerID, err := strconv.ParseUint(c.QueryParam("peer"), 10, 64)
	if err != nil || peerID == 0 || peerID == uid {
		return c.JSON(http.StatusBadRequest, errs("Invalid peer id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Collabs.CanChat(ctx, uid, peerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if !ok {
		return c.JSON(http.StatusForbidden, errs("No accepted collaboration with this user"))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		return nil
	}

	key := chat.PairKey(uid, peerID)
	if err := chat.Prepare(conn); err != nil {
		_ = conn.Close()
		return nil
	}
	h.Hub.Join(key, conn, uid)

	// Keepalive pings run beside the read loop; the loop ending stops them.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(chat.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := chat.Ping(conn); err != nil {
					return
				}
			}
		}
	}()

	defer func() {
		close(done)
		h.Hub.Leave(key, conn)
	}()

	for {
		var in inboundChatMsg
		if err := conn.ReadJSON(&in); err != nil {
			return nil
		}
		if in.Body == "" {
			continue
		}
		h.Hub.Broadcast(key, conn, chat.Message{
			From:   uid,
			Body:   in.Body,
			SentAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
