package socket

import (
	"context"
	"encoding/json"
	"sync"

	"poststudio/internal/studio/model"
	"poststudio/internal/studio/projection"
	"poststudio/pkg/logger"
)

const (
	ViewType    = "VIEW"    // Full studio view, pushed after every command
	CommandType = "COMMAND" // Client asks the studio to run a command
	OutcomeType = "OUTCOME" // Result of the sender's own command
	ErrorType   = "ERROR"   // Command could not be decoded or is unknown
)

type WSMessage struct {
	Type    string          `json:"type"`
	Command string          `json:"command,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CommandHandler runs a named command.
type CommandHandler interface {
	HandleCommand(ctx context.Context, name string, payload json.RawMessage) (model.Result, error)
}

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub fans the studio view out to every connected view and routes commands
// coming from those views.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	Commands   CommandHandler

	direct chan directMessage
	mu     sync.Mutex
	// Last VIEW message, sent to clients as they join.
	current []byte
}

func NewHub(commands CommandHandler) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan WSMessage),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Commands:   commands,
		direct:     make(chan directMessage),
	}
}

// Notify queues view for every connected client. It blocks until Run picks
// the message up.
func (h *Hub) Notify(view projection.View) {
	payload, err := json.Marshal(view)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling view: %v", err)
		return
	}
	h.Broadcast <- WSMessage{Type: ViewType, Payload: payload}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			current := h.current
			h.mu.Unlock()

			// The newcomer gets the latest view straight away.
			if current != nil {
				client.Send <- current
			}

		case client := <-h.Unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case dm := <-h.direct:
			h.mu.Lock()
			if h.Clients[dm.client] {
				select {
				case dm.client.Send <- dm.payload:
				default:
					logger.Sugar.Warnf("Client %s's send buffer is full. Dropping reply.", dm.client.ID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			h.mu.Lock()
			if msg.Type == ViewType {
				h.current = payload
			}
			for client := range h.Clients {
				select {
				case client.Send <- payload:
				default:
					// A client that cannot keep up is disconnected; it can
					// reconnect and will receive the latest view.
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.ID)
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Clients)
}

func (h *Hub) reply(client *Client, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling reply: %v", err)
		return
	}
	h.direct <- directMessage{client: client, payload: payload}
}

// drop must be called with h.mu held.
func (h *Hub) drop(client *Client) {
	if _, ok := h.Clients[client]; ok {
		delete(h.Clients, client)
		close(client.Send)
	}
}
