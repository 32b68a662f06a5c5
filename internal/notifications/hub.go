package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cloudnine/internal/middleware"
	"cloudnine/internal/models"
	"cloudnine/internal/observability"
)

const chatChannel = "chat:room"

// systemUser is the sender attached to join/leave notices.
var systemUser = models.ChatUser{ID: 0, Name: "system"}

// Event is the envelope every frame on the chat socket (and the redis
// mirror channel) is wrapped in.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MessagePayload carries one chat line to every connected client.
type MessagePayload struct {
	Chat string          `json:"chat"`
	User models.ChatUser `json:"user"`
}

// RosterPayload lists the display names currently in the room.
type RosterPayload struct {
	Users []string `json:"users"`
}

// NewEvent marshals payload into an Event envelope.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// Hub tracks every websocket client in the shared chat room and fans
// events out to them. Clients join anonymously and become visible on
// the roster once they log in with a display name.
type Hub struct {
	mu sync.RWMutex

	// clients maps every open connection to its identity; the value is
	// nil until the client sends a login event.
	clients map[*Client]*models.ChatUser

	// nextID hands out ephemeral roster ids, monotonically.
	nextID atomic.Uint64

	// publish mirrors events through redis when wired; nil means
	// single-instance mode and events go straight to local clients.
	publish func(ctx context.Context, event Event) error

	shutdown atomic.Bool
}

// NewHub creates a hub for the shared chat room.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]*models.ChatUser),
	}
}

// Register adds a fresh connection to the hub. The client stays off the
// roster until Login is called for it.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = nil
	h.mu.Unlock()

	observability.ActiveWebSockets.Inc()
}

// Login binds a display name to a registered client, announces the join
// and pushes the updated roster to everyone.
func (h *Hub) Login(client *Client, name string) models.ChatUser {
	user := models.ChatUser{ID: uint(h.nextID.Add(1)), Name: name}

	h.mu.Lock()
	h.clients[client] = &user
	h.mu.Unlock()

	middleware.Logger.Info("chat login",
		slog.Uint64("chat_user_id", uint64(user.ID)),
		slog.String("name", user.Name))

	h.Emit(context.Background(), noticeEvent(fmt.Sprintf("%s has joined the chat room", noticeName(name))))
	h.broadcastRoster()

	return user
}

// Identity returns the roster identity bound to client, if any.
func (h *Hub) Identity(client *Client) (models.ChatUser, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	user, ok := h.clients[client]
	if !ok || user == nil {
		return models.ChatUser{}, false
	}
	return *user, true
}

// UnregisterClient removes a connection. If it had logged in, the room
// is told it left and gets a fresh roster.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	user, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	observability.ActiveWebSockets.Dec()

	if user != nil && !h.shutdown.Load() {
		middleware.Logger.Info("chat disconnect",
			slog.Uint64("chat_user_id", uint64(user.ID)),
			slog.String("name", user.Name))

		h.Emit(context.Background(), noticeEvent(fmt.Sprintf("%s has left the chat room", noticeName(user.Name))))
		h.broadcastRoster()
	}
}

// Roster returns the display names of every logged-in client, sorted.
func (h *Hub) Roster() []string {
	h.mu.RLock()
	names := make([]string, 0, len(h.clients))
	for _, user := range h.clients {
		if user != nil {
			names = append(names, user.Name)
		}
	}
	h.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Emit sends an event to every client in the room. When the hub is
// wired to a notifier the event goes through redis so every instance
// delivers it; otherwise it is fanned out locally.
func (h *Hub) Emit(ctx context.Context, event Event) {
	if h.publish != nil {
		if err := h.publish(ctx, event); err != nil {
			middleware.Logger.Error("chat publish failed, falling back to local broadcast",
				slog.String("type", event.Type),
				slog.String("error", err.Error()))
			h.broadcastLocal(event)
		}
		return
	}
	h.broadcastLocal(event)
}

// EmitMessage wraps one chat line in a message event and emits it.
func (h *Hub) EmitMessage(ctx context.Context, chat string, user models.ChatUser) {
	event, err := NewEvent("message", MessagePayload{Chat: chat, User: user})
	if err != nil {
		middleware.Logger.Error("building chat message event", slog.String("error", err.Error()))
		return
	}

	observability.ChatMessagesTotal.WithLabelValues("message").Inc()
	h.Emit(ctx, event)
}

// broadcastRoster pushes the current member list to every client.
func (h *Hub) broadcastRoster() {
	event, err := NewEvent("connected_users", RosterPayload{Users: h.Roster()})
	if err != nil {
		middleware.Logger.Error("building roster event", slog.String("error", err.Error()))
		return
	}
	h.Emit(context.Background(), event)
}

// broadcastLocal delivers an event to the clients on this instance.
func (h *Hub) broadcastLocal(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.Error("marshaling chat event", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.TrySend(data)
	}
}

// StartWiring connects the hub to a redis notifier: events emitted on
// any instance are mirrored through the chat channel and delivered to
// this instance's clients by the subscriber goroutine.
func (h *Hub) StartWiring(ctx context.Context, notifier *Notifier) {
	if notifier == nil {
		return
	}

	h.publish = func(ctx context.Context, event Event) error {
		return notifier.Publish(ctx, chatChannel, event)
	}

	notifier.Subscribe(ctx, chatChannel, func(data []byte) {
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			middleware.Logger.Warn("dropping malformed chat event from redis",
				slog.String("error", err.Error()))
			return
		}
		h.broadcastLocal(event)
	})
}

// Shutdown closes every connection. Pending leave notices are
// suppressed; clients are gone either way.
func (h *Hub) Shutdown(ctx context.Context) {
	h.shutdown.Store(true)

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]*models.ChatUser)
	h.mu.Unlock()

	for _, client := range clients {
		close(client.Send)
		_ = client.Conn.Close()
		observability.ActiveWebSockets.Dec()
	}

	deadline := time.NewTimer(100 * time.Millisecond)
	defer deadline.Stop()
	select {
	case <-ctx.Done():
	case <-deadline.C:
	}
}

func noticeEvent(text string) Event {
	event, _ := NewEvent("message", MessagePayload{Chat: text, User: systemUser})
	return event
}

// noticeName shortens a display name for join/leave notices: clients follow
// a "name.suffix" convention and only the part before the first dot is shown.
// The roster and message payloads keep the full name.
func noticeName(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}
