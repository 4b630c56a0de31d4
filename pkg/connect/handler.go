package connect

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"launchdir/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler exposes the realtime socket plus the REST surface around it.
type Handler struct {
	registry *Registry
	store    MessageStore // optional; nil skips persistence and history
	logger   *log.Logger
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
		logger:   log.New(log.Writer(), "[connect] ", log.LstdFlags),
	}
}

// SetStore injects the message store for persistence and history.
func (h *Handler) SetStore(store MessageStore) {
	h.store = store
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws/connect", h.handleSocket)
	router.GET("/connect/status", h.getStatus)
	router.GET("/connect/messages", h.getThread)
	router.POST("/connect/messages/read", h.markRead)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend domain is fixed
		return true
	},
}

// handleSocket validates the caller uuid from the query and upgrades to a
// websocket. One connection per user; a reconnect displaces the old socket.
func (h *Handler) handleSocket(c *gin.Context) {
	userUUID := c.Query("uuid")
	if _, err := uuid.Parse(userUUID); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid uuid, must be UUID", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade error: %v", err)
		return
	}

	client := h.registry.Register(userUUID, conn)
	h.logger.Printf("user %s connected", userUUID)

	go h.readLoop(client)
	go h.writeLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.registry.Unregister(client)
		client.Conn.Close()
		h.logger.Printf("user %s disconnected", client.UserUUID)
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-client.Done:
			return
		default:
		}

		var frame inboundFrame
		if err := client.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Printf("websocket error for user %s: %v", client.UserUUID, err)
			}
			return
		}

		go h.processFrame(client, frame)
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done:
			return

		case payload, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(payload); err != nil {
				h.logger.Printf("write error for user %s: %v", client.UserUUID, err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processFrame validates, persists, relays, and acknowledges one frame.
func (h *Handler) processFrame(client *Client, frame inboundFrame) {
	if err := validateFrame(frame, client.UserUUID); err != nil {
		h.queueForSender(client, Ack{Status: "error", Error: err.Error()})
		return
	}

	msg := Message{
		ID:           uuid.NewString(),
		StartupID:    frame.StartupID,
		SenderUUID:   client.UserUUID,
		ReceiverUUID: frame.ReceiverUUID,
		Content:      frame.Content,
		SentAt:       time.Now().UTC(),
	}

	if h.store != nil {
		if _, err := h.store.SaveMessage(context.Background(), msg); err != nil {
			h.logger.Printf("db insert failed for %s -> %s: %v", msg.SenderUUID, msg.ReceiverUUID, err)
			h.queueForSender(client, Ack{MessageID: msg.ID, Status: "error", Error: "failed to persist message"})
			return
		}
	}

	ack := Ack{MessageID: msg.ID, Status: "queued"}
	if h.registry.IsOnline(msg.ReceiverUUID) {
		if err := h.registry.Deliver(msg.ReceiverUUID, msg); err != nil {
			h.logger.Printf("deliver to %s failed: %v", msg.ReceiverUUID, err)
		} else {
			ack.Status = "delivered"
		}
	}

	h.queueForSender(client, ack)
}

func validateFrame(frame inboundFrame, senderUUID string) error {
	if frame.Content == "" {
		return fmt.Errorf("message content cannot be empty")
	}
	if len(frame.Content) > 10000 {
		return fmt.Errorf("message content too long (max 10000 characters)")
	}
	if _, err := uuid.Parse(frame.ReceiverUUID); err != nil {
		return fmt.Errorf("receiver_uuid must be a valid UUID")
	}
	if frame.ReceiverUUID == senderUUID {
		return fmt.Errorf("cannot send messages to yourself")
	}
	return nil
}

func (h *Handler) queueForSender(client *Client, payload interface{}) {
	select {
	case client.Send <- payload:
	case <-client.Done:
	}
}

// @Summary      Get online users
// @Description  List the users currently holding an open connection
// @Tags         Connect
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /connect/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	online := h.registry.OnlineUsers()
	response.SendAPIResponse(c, http.StatusOK, true, "online status", gin.H{
		"online_users": online,
		"count":        len(online),
	})
}

// @Summary      Get conversation history
// @Description  Fetch messages between the requesting user and a peer, optionally scoped to a startup
// @Tags         Connect
// @Param        uuid query string true "Requesting user UUID"
// @Param        peer query string true "Peer user UUID"
// @Param        startup_id query int false "Restrict to messages about this startup"
// @Param        limit query int false "Maximum messages to return (max 100)"
// @Param        before query int false "Epoch seconds cursor for pagination"
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /connect/messages [get]
func (h *Handler) getThread(c *gin.Context) {
	if h.store == nil {
		response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "message history not available", nil)
		return
	}

	userUUID := c.Query("uuid")
	if _, err := uuid.Parse(userUUID); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid uuid, must be UUID", nil)
		return
	}
	peerUUID := c.Query("peer")
	if _, err := uuid.Parse(peerUUID); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid peer, must be UUID", nil)
		return
	}

	var startupID int64
	if s := c.Query("startup_id"); s != "" {
		if _, err := fmt.Sscanf(s, "%d", &startupID); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup_id parameter", nil)
			return
		}
	}

	limit := 50
	if ls := c.Query("limit"); ls != "" {
		if _, err := fmt.Sscanf(ls, "%d", &limit); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid limit parameter", nil)
			return
		}
	}

	beforeEpoch := time.Now().Unix()
	if bs := c.Query("before"); bs != "" {
		if _, err := fmt.Sscanf(bs, "%d", &beforeEpoch); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid before parameter", nil)
			return
		}
	}

	messages, err := h.store.GetThread(c.Request.Context(), userUUID, peerUUID, startupID, limit, beforeEpoch)
	if err != nil {
		h.logger.Printf("failed to fetch thread %s <-> %s: %v", userUUID, peerUUID, err)
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to fetch messages", nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "messages", gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

type markReadRequest struct {
	UserUUID string `json:"uuid" binding:"required,uuid"`
	PeerUUID string `json:"peer" binding:"required,uuid"`
}

// @Summary      Mark a thread as read
// @Description  Mark every unread message from the peer to the requesting user as read
// @Tags         Connect
// @Accept       json
// @Produce      json
// @Param        request body markReadRequest true "Reader and peer UUIDs"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /connect/messages/read [post]
func (h *Handler) markRead(c *gin.Context) {
	if h.store == nil {
		response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "message history not available", nil)
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "Invalid request: "+err.Error(), nil)
		return
	}

	updated, err := h.store.MarkThreadRead(c.Request.Context(), req.UserUUID, req.PeerUUID)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to mark thread read", nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "thread marked read", gin.H{"updated": updated})
}
