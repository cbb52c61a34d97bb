package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"qurban_backend/internals/databases/dbtest"
	"qurban_backend/internals/features/notifications/email/model"
)

type stubNotifier struct {
	mu   sync.Mutex
	sent []OrderConfirmation
	err  error
}

func (s *stubNotifier) SendOrderConfirmation(_ context.Context, msg OrderConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type fakeSender struct {
	msgs []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return nil
}

func sampleConfirmation() OrderConfirmation {
	return OrderConfirmation{
		To:             "fulan@example.com",
		OrderID:        "7c1f",
		DashCode:       "QRB-ABC234",
		NamaPengqurban: "Fulan",
		Items:          []OrderItem{{Nama: "Sapi A", Quantity: 1, Harga: 25_000_000, Subtotal: 25_000_000}},
		TotalAmount:    25_000_000,
		CaraBayar:      "TRANSFER",
		IsNewUser:      true,
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 1.000", FormatRupiah(1000))
	assert.Equal(t, "Rp 25.000.000", FormatRupiah(25_000_000))
	assert.Equal(t, "-Rp 3.500", FormatRupiah(-3500))
}

func TestRender(t *testing.T) {
	msg := sampleConfirmation()
	html, text, err := msg.Render("Panitia Qurban")
	require.NoError(t, err)

	assert.Contains(t, html, "QRB-ABC234")
	assert.Contains(t, html, "Rp 25.000.000")
	assert.Contains(t, html, "Akun baru telah dibuat untuk Anda.")
	assert.Contains(t, html, PaymentInstructions("TRANSFER"))
	assert.NotContains(t, html, "cid:qrcode")

	assert.Contains(t, text, "Sapi A x1: Rp 25.000.000")
	assert.Contains(t, text, "Panitia Qurban")

	msg.IsNewUser = false
	msg.QRPNG = []byte{0x89, 'P', 'N', 'G'}
	html, _, err = msg.Render("Panitia Qurban")
	require.NoError(t, err)
	assert.Contains(t, html, "cid:qrcode")
	assert.NotContains(t, html, "Akun baru")
}

func TestNewAccountNotice(t *testing.T) {
	assert.Empty(t, NewAccountNotice(false, true))
	assert.Equal(t, "Akun baru telah dibuat menggunakan Google Auth.", NewAccountNotice(true, true))
	assert.Equal(t, "Akun baru telah dibuat untuk Anda.", NewAccountNotice(true, false))
	assert.Equal(t, "Konfirmasi Pesanan #42 - Panitia", Subject("42", "Panitia"))
}

func TestSMTPNotifier(t *testing.T) {
	n := &SMTPNotifier{FromName: "Panitia", FromEmail: "panitia@example.com"}
	assert.ErrorIs(t, n.SendOrderConfirmation(context.Background(), sampleConfirmation()), ErrSMTPNotConfigured)

	sender := &fakeSender{}
	n.Sender = sender
	msg := sampleConfirmation()
	msg.QRPNG = []byte{1, 2, 3}
	require.NoError(t, n.SendOrderConfirmation(context.Background(), msg))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, []string{"fulan@example.com"}, sender.msgs[0].GetHeader("To"))
	assert.True(t, strings.HasPrefix(sender.msgs[0].GetHeader("Subject")[0], "Konfirmasi Pesanan #7c1f"))

	msg.To = ""
	assert.Error(t, n.SendOrderConfirmation(context.Background(), msg))
}

func TestResendLimiter_MemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	l := NewResendLimiter(store, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "Fulan@Example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, " fulan@example.com ")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "lain@example.com")
	assert.True(t, ok)

	now = now.Add(time.Hour)
	ok, _ = l.Allow(ctx, "fulan@example.com")
	assert.True(t, ok)
}

func TestDispatcherBackoff(t *testing.T) {
	d := NewDispatcher(nil, nil, 0)
	assert.Equal(t, 5, d.MaxAttempts)
	assert.Equal(t, time.Minute, d.Backoff(0))
	assert.Equal(t, time.Minute, d.Backoff(1))
	assert.Equal(t, 4*time.Minute, d.Backoff(3))
	assert.Equal(t, 6*time.Hour, d.Backoff(20))
}

func TestDispatcher_DeliverSent(t *testing.T) {
	db := dbtest.Open(t)
	notifier := &stubNotifier{}
	d := NewDispatcher(db, notifier, 3)

	msg, err := EnqueueOrderConfirmation(db, uuid.New(), sampleConfirmation(), time.Now())
	require.NoError(t, err)
	require.NoError(t, d.Deliver(context.Background(), msg.OutboxID))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "QRB-ABC234", notifier.sent[0].DashCode)

	var stored model.OutboxMessageModel
	require.NoError(t, db.First(&stored, "outbox_id = ?", msg.OutboxID).Error)
	assert.Equal(t, model.OutboxSent, stored.OutboxStatus)
	assert.Equal(t, 1, stored.OutboxAttempts)
	assert.NotNil(t, stored.OutboxSentAt)

	// sudah terkirim: tidak diklaim lagi
	assert.ErrorIs(t, d.Deliver(context.Background(), msg.OutboxID), ErrOutboxNotClaimable)
	assert.Len(t, notifier.sent, 1)
}

func TestDispatcher_RetryThenFail(t *testing.T) {
	db := dbtest.Open(t)
	notifier := &stubNotifier{err: errors.New("smtp down")}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	d := NewDispatcher(db, notifier, 2)
	d.Now = func() time.Time { return now }

	msg, err := EnqueueOrderConfirmation(db, uuid.New(), sampleConfirmation(), now)
	require.NoError(t, err)

	assert.Error(t, d.Deliver(context.Background(), msg.OutboxID))
	var stored model.OutboxMessageModel
	require.NoError(t, db.First(&stored, "outbox_id = ?", msg.OutboxID).Error)
	assert.Equal(t, model.OutboxPending, stored.OutboxStatus)
	assert.Equal(t, 1, stored.OutboxAttempts)
	require.NotNil(t, stored.OutboxLastError)
	assert.Equal(t, "smtp down", *stored.OutboxLastError)
	assert.True(t, stored.OutboxNextAttemptAt.Equal(now.Add(time.Minute)))

	// belum jatuh tempo
	sent, err := d.ProcessDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, notifier.sent, 1)

	now = now.Add(2 * time.Minute)
	sent, err = d.ProcessDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, notifier.sent, 2)

	var failed model.OutboxMessageModel
	require.NoError(t, db.First(&failed, "outbox_id = ?", msg.OutboxID).Error)
	assert.Equal(t, model.OutboxFailed, failed.OutboxStatus)
	assert.Equal(t, 2, failed.OutboxAttempts)
}

func TestRequeueAndLatest(t *testing.T) {
	db := dbtest.Open(t)
	orderID := uuid.New()
	first, err := EnqueueOrderConfirmation(db, orderID, sampleConfirmation(), time.Now())
	require.NoError(t, err)

	latest, err := LatestForAggregate(db, model.KindOrderConfirmation, orderID)
	require.NoError(t, err)
	assert.Equal(t, first.OutboxID, latest.OutboxID)

	again, err := Requeue(db, latest, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, first.OutboxID, again.OutboxID)
	assert.Equal(t, model.OutboxPending, again.OutboxStatus)

	payload, err := PayloadOf(again)
	require.NoError(t, err)
	assert.Equal(t, "fulan@example.com", payload.To)
	assert.Equal(t, int64(25_000_000), payload.TotalAmount)
}
