package service

import (
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

const (
	EventUpdateMudhohi = "update-mudhohi"
	EventUpdateKupon   = "update-kupon"
	EventUpdateHewan   = "update-hewan"
	EventUpdateProduct = "update-product"
)

// Event: payload yang dikirim ke dashboard.
type Event struct {
	Event string    `json:"event"`
	Data  any       `json:"data,omitempty"`
	At    time.Time `json:"at"`
}

// Publisher: sisi pengirim event realtime.
type Publisher interface {
	Publish(event string, data any)
}

// NopPublisher membuang semua event.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}

// Client: satu koneksi; Send dibaca oleh writer loop koneksi tsb.
type Client struct {
	Send chan []byte
}

const clientBuffer = 32

// Hub: fan-out event ke semua client lokal.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), now: time.Now}
}

func (h *Hub) Register() *Client {
	c := &Client{Send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish: encode lalu broadcast lokal.
func (h *Hub) Publish(event string, data any) {
	raw, err := Encode(Event{Event: event, Data: data, At: h.now()})
	if err != nil {
		log.Printf("[REALTIME] encode %s gagal: %v", event, err)
		return
	}
	h.Broadcast(raw)
}

// Broadcast: client yang buffer-nya penuh diputus.
func (h *Hub) Broadcast(raw []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.Send <- raw:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("[REALTIME] client lambat, diputus")
		h.Unregister(c)
	}
}

func Encode(ev Event) ([]byte, error) {
	return sonic.Marshal(ev)
}
