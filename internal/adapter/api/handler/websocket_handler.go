package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "mahto/internal/infrastructure/websocket"
	"mahto/internal/usecase"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
	"mahto/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
	userUseCase *usecase.UserUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase, userUseCase *usecase.UserUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
		userUseCase: userUseCase,
	}
}

// clientMessage is the envelope clients send over the socket.
type clientMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upgrade connection", err))
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register(client)

	go client.WritePump()
	go h.readPump(client)

	return nil
}

// readPump owns the connection's lifetime: every watch started for this
// client hangs off ctx, so a disconnect tears all of them down.
func (h *WebSocketHandler) readPump(client *ws.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer h.wsManager.Unregister(client)
	defer client.Conn.Close()

	go h.streamConversations(ctx, client)
	go h.streamProfile(ctx, client)

	watches := make(map[string]context.CancelFunc)
	defer func() {
		for _, stop := range watches {
			stop()
		}
	}()

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				logger.Warn("WebSocket read for %s failed: %v", client.UserID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "join_conversation":
			if msg.ConversationID == "" {
				continue
			}
			// Re-joining an already watched conversation is a no-op.
			if _, ok := watches[msg.ConversationID]; ok {
				continue
			}
			h.wsManager.JoinRoom(msg.ConversationID, client)

			watchCtx, stop := context.WithCancel(ctx)
			watches[msg.ConversationID] = stop
			go h.streamMessages(watchCtx, client, msg.ConversationID)

		case "leave_conversation":
			if stop, ok := watches[msg.ConversationID]; ok {
				stop()
				delete(watches, msg.ConversationID)
			}
			h.wsManager.LeaveRoom(msg.ConversationID, client)

		case "mark_read":
			if msg.ConversationID == "" {
				continue
			}
			if err := h.chatUseCase.MarkConversationRead(ctx, client.UserID, msg.ConversationID); err != nil {
				logger.Warn("Mark read over socket failed for %s: %v", client.UserID, err)
			}
		}
	}
}

func (h *WebSocketHandler) streamConversations(ctx context.Context, client *ws.Client) {
	updates, errs := h.chatUseCase.WatchConversations(ctx, client.UserID)

	for {
		select {
		case views, ok := <-updates:
			if !ok {
				if err, open := <-errs; open && err != nil {
					logger.Warn("Conversation stream for %s ended: %v", client.UserID, err)
				}
				return
			}
			payload, err := json.Marshal(map[string]interface{}{
				"type":          "conversations_snapshot",
				"conversations": views,
			})
			if err != nil {
				continue
			}
			h.wsManager.SendToUser(client.UserID, payload)
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) streamProfile(ctx context.Context, client *ws.Client) {
	updates, errs := h.userUseCase.WatchProfile(ctx, client.UserID)

	for {
		select {
		case user, ok := <-updates:
			if !ok {
				if err, open := <-errs; open && err != nil {
					logger.Warn("Profile stream for %s ended: %v", client.UserID, err)
				}
				return
			}
			user.LoggedIn = true
			payload, err := json.Marshal(map[string]interface{}{
				"type":    "profile_snapshot",
				"profile": user,
			})
			if err != nil {
				continue
			}
			h.wsManager.SendToUser(client.UserID, payload)
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) streamMessages(ctx context.Context, client *ws.Client, conversationID string) {
	updates, errs := h.chatUseCase.WatchMessages(ctx, client.UserID, conversationID)

	for {
		select {
		case messages, ok := <-updates:
			if !ok {
				if err, open := <-errs; open && err != nil {
					logger.Warn("Message stream %s for %s ended: %v", conversationID, client.UserID, err)
				}
				return
			}
			payload, err := json.Marshal(map[string]interface{}{
				"type":            "messages_snapshot",
				"conversation_id": conversationID,
				"messages":        messages,
			})
			if err != nil {
				continue
			}
			h.wsManager.SendToUser(client.UserID, payload)
		case <-ctx.Done():
			return
		}
	}
}
