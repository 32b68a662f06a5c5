// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cloudnine/internal/middleware"
	"cloudnine/internal/models"
	"cloudnine/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// recentMessagesOnLogin is how much chat history a fresh login receives.
const recentMessagesOnLogin = 50

// chatAck is the per-event acknowledgment sent only to the event's sender.
// Failures surface exclusively through acks; they are never broadcast and
// never close the connection.
type chatAck struct {
	Type  string `json:"type"`
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// ackError renders an error for an ack. Internal detail stays in the logs.
func ackError(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
		return appErr.Message
	}
	return "internal error"
}

func sendAck(client *notifications.Client, ack chatAck) {
	ack.Type = "ack"
	data, err := json.Marshal(ack)
	if err != nil {
		return
	}
	client.TrySend(data)
}

// WebSocketChatHandler handles WebSocket connections for the shared chat
// room. Clients join anonymously and identify themselves with a login event.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		client := notifications.NewClient(s.hub, conn)
		s.hub.Register(client)

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var frame struct {
				Type    string `json:"type"`
				Name    string `json:"name"`
				Content string `json:"content"`
			}
			if err := json.Unmarshal(message, &frame); err != nil {
				sendAck(c, chatAck{OK: false, Error: "invalid message format"})
				return
			}

			switch frame.Type {
			case "login":
				s.handleChatLogin(ctx, c, frame.Name)
			case "message":
				s.handleChatMessage(ctx, c, frame.Content)
			default:
				sendAck(c, chatAck{OK: false, Error: "unknown event type"})
			}
		}

		go client.WritePump()
		client.ReadPump()
	})
}

func (s *Server) handleChatLogin(ctx context.Context, client *notifications.Client, name string) {
	if _, ok := s.hub.Identity(client); ok {
		sendAck(client, chatAck{OK: false, Error: "already logged in"})
		return
	}

	name, err := s.chatService.ValidateName(name)
	if err != nil {
		sendAck(client, chatAck{OK: false, Error: ackError(err)})
		return
	}

	user := s.hub.Login(client, name)
	sendAck(client, chatAck{OK: true, Data: user})

	// Replay recent history to the fresh login only.
	history, err := s.chatService.RecentMessages(ctx, recentMessagesOnLogin)
	if err != nil {
		log.Printf("chat: loading recent messages: %v", err)
		return
	}
	if event, err := notifications.NewEvent("recent_messages", history); err == nil {
		if data, err := json.Marshal(event); err == nil {
			client.TrySend(data)
		}
	}
}

func (s *Server) handleChatMessage(ctx context.Context, client *notifications.Client, content string) {
	user, ok := s.hub.Identity(client)
	if !ok {
		sendAck(client, chatAck{OK: false, Error: "login required"})
		return
	}

	// Same limit as the HTTP write endpoints. Fails open when the
	// rate limit store is unavailable.
	id := fmt.Sprintf("chat_user:%d", user.ID)
	allowed, err := middleware.CheckRateLimit(ctx, s.redis, "send_chat", id, 15, time.Minute)
	if err != nil {
		log.Printf("chat: rate limit store unavailable: %v", err)
		allowed = true
	}
	if !allowed {
		sendAck(client, chatAck{OK: false, Error: "Rate limit exceeded. Please wait a moment."})
		return
	}

	msg, err := s.chatService.SaveMessage(ctx, user, content)
	if err != nil {
		log.Printf("chat: saving message: %v", err)
		sendAck(client, chatAck{OK: false, Error: ackError(err)})
		return
	}

	sendAck(client, chatAck{OK: true})
	s.hub.EmitMessage(ctx, msg.Content, user)
}
