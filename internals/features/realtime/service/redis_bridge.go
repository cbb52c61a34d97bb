package service

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "qurban:realtime"

// RedisBridge: Publish lewat Redis supaya semua instance (termasuk diri sendiri)
// meneruskan event ke hub lokal masing-masing.
type RedisBridge struct {
	Client  *redis.Client
	Channel string
	Hub     *Hub
}

func NewRedisBridge(client *redis.Client, hub *Hub) *RedisBridge {
	return &RedisBridge{Client: client, Channel: DefaultChannel, Hub: hub}
}

func (b *RedisBridge) Publish(event string, data any) {
	raw, err := Encode(Event{Event: event, Data: data, At: time.Now()})
	if err != nil {
		log.Printf("[REALTIME] encode %s gagal: %v", event, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.Client.Publish(ctx, b.Channel, raw).Err(); err != nil {
		// Redis down → tetap kirim ke client lokal
		log.Printf("[REALTIME] publish redis gagal, fallback lokal: %v", err)
		b.Hub.Broadcast(raw)
	}
}

// Run: relay pesan channel ke hub lokal sampai ctx selesai.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.Client.Subscribe(ctx, b.Channel)
	defer sub.Close()

	log.Printf("[REALTIME] listening channel %s", b.Channel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.Hub.Broadcast([]byte(msg.Payload))
		}
	}
}

// NewPublisher: RedisBridge kalau Redis tersedia, selain itu hub lokal.
func NewPublisher(ctx context.Context, client *redis.Client, hub *Hub) Publisher {
	if client == nil {
		return hub
	}
	bridge := NewRedisBridge(client, hub)
	go bridge.Run(ctx)
	return bridge
}
