package ws

import (
	"encoding/json"
	"log"
	"sync"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Event is the wire envelope for both directions of the chat channel.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type sendMessagePayload struct {
	ConversationID uint   `json:"conversation_id"`
	Content        string `json:"content"`
}

type typingPayload struct {
	ConversationID uint `json:"conversation_id"`
}

// wsConn is the write side of a websocket connection as the hub uses it.
type wsConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// client wraps a connection with a write lock. The websocket library
// forbids concurrent writes to one connection, and a user's connection is
// written to both by its own session loop and by Push calls running on
// other users' loops.
type client struct {
	conn    wsConn
	writeMu sync.Mutex
}

func (cl *client) write(event Event) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteJSON(event)
}

// Hub tracks connected users for this process instance. Presence is
// per-process state: a horizontally scaled deployment needs a shared store
// behind the same interface.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*client
}

// DefaultHub is the process-wide hub instance.
var DefaultHub = &Hub{clients: make(map[uint]*client)}

func (h *Hub) register(userID uint, conn wsConn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	// A newer connection replaces any stale one for the same user.
	if old, ok := h.clients[userID]; ok && old.conn != conn {
		old.conn.Close()
	}
	cl := &client{conn: conn}
	h.clients[userID] = cl
	return cl
}

func (h *Hub) unregister(userID uint, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cl, ok := h.clients[userID]; ok && cl.conn == conn {
		delete(h.clients, userID)
	}
}

// Online reports whether the user has a live connection on this instance.
func (h *Hub) Online(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Push delivers an event to a user if connected. Best effort: a closed or
// missing connection is simply skipped, durable state already lives in the
// database.
func (h *Hub) Push(userID uint, event string, data interface{}) {
	h.mu.RLock()
	cl, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WS] marshal failed for event %s: %v", event, err)
		return
	}
	if err := cl.write(Event{Event: event, Data: raw}); err != nil {
		log.Printf("[WS] push to user %d failed: %v", userID, err)
	}
}

// Upgrade gates the websocket handshake. The token comes in as a query
// parameter because browsers cannot set headers on websocket dials.
func Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, role, err := middleware.ParseJWT(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}

	c.Locals("userId", userID)
	c.Locals("role", role)
	return c.Next()
}

// Handler runs one client session: register presence, loop over inbound
// events, tear down on disconnect.
func Handler(conn *websocket.Conn) {
	userID, ok := conn.Locals("userId").(uint)
	if !ok {
		conn.Close()
		return
	}

	cl := DefaultHub.register(userID, conn)
	defer func() {
		DefaultHub.unregister(userID, conn)
		conn.Close()
	}()

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			return
		}

		switch event.Event {
		case "joinConversation":
			// Membership is checked per message; join is an ack no-op kept
			// for client compatibility. The ack goes through the client's
			// write lock like every other outbound frame.
			cl.write(Event{Event: "joinedConversation", Data: event.Data})

		case "sendMessage":
			handleSendMessage(userID, event.Data)

		case "typing_start", "typing_stop":
			handleTyping(userID, event.Event, event.Data)

		default:
			log.Printf("[WS] unknown event %q from user %d", event.Event, userID)
		}
	}
}

func handleSendMessage(senderID uint, raw json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Content == "" {
		return
	}

	db := database.Database.Db

	var conversation models.Conversation
	if err := db.Where("id = ? AND is_deleted = ?", payload.ConversationID, false).
		First(&conversation).Error; err != nil {
		return
	}
	if !conversation.HasParticipant(senderID) {
		return
	}

	// Durable insert first; the realtime push is best effort on top.
	message := models.ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        payload.Content,
	}
	if err := db.Create(&message).Error; err != nil {
		log.Printf("[WS] failed to persist message in conversation %d: %v", conversation.ID, err)
		return
	}

	DefaultHub.Push(conversation.OtherParticipant(senderID), "receiveMessage", message)
	DefaultHub.Push(senderID, "messageSent", message)
}

func handleTyping(senderID uint, event string, raw json.RawMessage) {
	var payload typingPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}

	var conversation models.Conversation
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", payload.ConversationID, false).
		First(&conversation).Error; err != nil {
		return
	}
	if !conversation.HasParticipant(senderID) {
		return
	}

	DefaultHub.Push(conversation.OtherParticipant(senderID), event, fiber.Map{
		"conversation_id": conversation.ID,
		"user_id":         senderID,
	})
}
