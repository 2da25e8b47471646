package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/util"
	"gptading/backend/pkg/logger"
	"gptading/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsMaxMessageSize = 512
	wsSendBuffer     = 256
)

// EventPublisher delivers an event to every open tab of a session
type EventPublisher interface {
	Publish(ctx context.Context, sessionID string, msg model.WSMessage) error
}

// Client represents one WebSocket connection of a session
type Client struct {
	Hub       *WSHub
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte
}

// WSHub handles WebSocket connections and per-session fan-out
type WSHub struct {
	clients      map[*Client]bool
	sessionConns map[string][]*Client
	register     chan *Client
	unregister   chan *Client
	done         chan struct{}
	mu           sync.RWMutex

	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewWSHub creates a hub. allowedOrigins empty or "*" accepts any origin.
func NewWSHub(allowedOrigins []string) *WSHub {
	h := &WSHub{
		clients:      make(map[*Client]bool),
		sessionConns: make(map[string][]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		log:          logger.GetLogger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		// same host is always fine
		return strings.HasSuffix(origin, "://"+r.Host)
	}
}

// Run processes registrations until ctx is done, then closes every client
func (h *WSHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.sessionConns = make(map[string][]*Client)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.sessionConns[client.SessionID] = append(h.sessionConns[client.SessionID], client)
			h.mu.Unlock()
			h.log.Debugf("WS client registered: session=%s", client.SessionID)

		case client := <-h.unregister:
			h.removeClient(client)
			h.log.Debugf("WS client unregistered: session=%s", client.SessionID)
		}
	}
}

func (h *WSHub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	conns := h.sessionConns[client.SessionID]
	for i, c := range conns {
		if c == client {
			h.sessionConns[client.SessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.sessionConns[client.SessionID]) == 0 {
		delete(h.sessionConns, client.SessionID)
	}
}

// ClientCount is the number of open connections of a session
func (h *WSHub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionConns[sessionID])
}

// Publish sends msg to the session's connections in this process
func (h *WSHub) Publish(_ context.Context, sessionID string, msg model.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal ws message: %w", err)
	}
	h.sendRaw(sessionID, data)
	return nil
}

func (h *WSHub) sendRaw(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.sessionConns[sessionID] {
		select {
		case client.Send <- data:
		default:
			// slow reader, drop the event
			h.log.Warnf("WS send buffer full: session=%s", sessionID)
		}
	}
}

// StartPubSubListener forwards events published on Redis session channels to local clients.
// It returns when ctx is done.
func (h *WSHub) StartPubSubListener(ctx context.Context, redisClient *redis.Client) {
	prefix := redis.SessionChannel("")
	pubsub := redisClient.PSubscribe(ctx, redis.SessionChannel("*"))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !strings.HasPrefix(msg.Channel, prefix) {
				continue
			}
			h.sendRaw(strings.TrimPrefix(msg.Channel, prefix), []byte(msg.Payload))
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the caller's session
func (h *WSHub) ServeWS(c *gin.Context) {
	sessionID := c.GetString(util.ContextKeySessionID)
	if sessionID == "" {
		util.SendError(c, util.NewAppError(http.StatusBadRequest, util.ErrCodeSessionMissing, "Session not found"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		Hub:       h,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, wsSendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// ReadPump consumes control frames until the connection fails
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(wsMaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Errorf("WS error: %v", err)
			}
			return
		}
	}
}

// WritePump writes queued events and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// RedisPublisher publishes events on Redis so every server process can deliver them
type RedisPublisher struct {
	redis *redis.Client
}

func NewRedisPublisher(redisClient *redis.Client) *RedisPublisher {
	return &RedisPublisher{redis: redisClient}
}

func (p *RedisPublisher) Publish(ctx context.Context, sessionID string, msg model.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal ws message: %w", err)
	}
	if err := p.redis.Publish(ctx, redis.SessionChannel(sessionID), data); err != nil {
		return fmt.Errorf("publish to %s: %w", redis.SessionChannel(sessionID), err)
	}
	return nil
}
