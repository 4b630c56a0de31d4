package connect

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one connected user.
type Client struct {
	UserUUID string
	Conn     *websocket.Conn
	Send     chan interface{}
	Done     chan struct{}
}

// Registry tracks active websocket connections, one per user.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register attaches a connection for userUUID, displacing any previous one.
func (r *Registry) Register(userUUID string, conn *websocket.Conn) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.clients[userUUID]; ok {
		close(existing.Done)
		if existing.Conn != nil {
			existing.Conn.Close()
		}
	}

	client := &Client{
		UserUUID: userUUID,
		Conn:     conn,
		Send:     make(chan interface{}, 32),
		Done:     make(chan struct{}),
	}
	r.clients[userUUID] = client
	return client
}

// Unregister drops the connection for userUUID if it is still the given one.
// A stale close must not tear down a newer connection from the same user.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.clients[client.UserUUID]; ok && current == client {
		select {
		case <-current.Done:
		default:
			close(current.Done)
		}
		delete(r.clients, client.UserUUID)
	}
}

func (r *Registry) IsOnline(userUUID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.clients[userUUID]
	return ok
}

func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.clients))
	for uuid := range r.clients {
		out = append(out, uuid)
	}
	return out
}

// Deliver queues a payload for userUUID. Fails when the user is offline or
// their send queue is saturated.
func (r *Registry) Deliver(userUUID string, payload interface{}) error {
	r.mu.RLock()
	client, ok := r.clients[userUUID]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not online", userUUID)
	}

	select {
	case client.Send <- payload:
		return nil
	case <-client.Done:
		return fmt.Errorf("user %s disconnected", userUUID)
	default:
		return fmt.Errorf("user %s message queue full", userUUID)
	}
}
