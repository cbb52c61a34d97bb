package service

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	h := NewHub()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return at }

	a, b := h.Register(), h.Register()
	assert.Equal(t, 2, h.Count())

	h.Publish(EventUpdateMudhohi, map[string]any{"dash_code": "QRB-ABC234"})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var ev Event
			require.NoError(t, sonic.Unmarshal(raw, &ev))
			assert.Equal(t, EventUpdateMudhohi, ev.Event)
			assert.True(t, ev.At.Equal(at))
			assert.Equal(t, "QRB-ABC234", ev.Data.(map[string]any)["dash_code"])
		default:
			t.Fatal("event tidak diterima")
		}
	}

	h.Unregister(a)
	h.Unregister(a)
	assert.Equal(t, 1, h.Count())
	_, open := <-a.Send
	assert.False(t, open)
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	c := h.Register()
	for i := 0; i < clientBuffer; i++ {
		h.Broadcast([]byte("x"))
	}
	assert.Equal(t, 1, h.Count())

	h.Broadcast([]byte("x"))
	assert.Zero(t, h.Count())
	assert.Len(t, c.Send, clientBuffer)
}

func TestNewPublisherWithoutRedis(t *testing.T) {
	h := NewHub()
	p := NewPublisher(t.Context(), nil, h)
	assert.Same(t, h, p)

	NopPublisher{}.Publish(EventUpdateKupon, nil)
}
