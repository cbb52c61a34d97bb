package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qurban_backend/internals/databases/dbtest"
	emailSvc "qurban_backend/internals/features/notifications/email/service"
	midtransSvc "qurban_backend/internals/features/payment/midtrans/service"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	qrSvc "qurban_backend/internals/features/qurban/qrcode/service"
	authHelper "qurban_backend/internals/features/users/auth/helper"
	authSvc "qurban_backend/internals/features/users/auth/service"
)

func init() {
	authHelper.BcryptCost = bcrypt.MinCost
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []emailSvc.OrderConfirmation
	err  error
}

func (s *stubNotifier) SendOrderConfirmation(_ context.Context, msg emailSvc.OrderConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type stubQR struct {
	err error
}

func (s stubQR) Render(_ context.Context, d qrSvc.OrderData) (*qrSvc.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &qrSvc.Result{PNG: []byte("\x89PNG"), URL: "/qr-codes/" + d.DashCode + ".png"}, nil
}

type stubSnap struct {
	orders []midtransSvc.SnapOrder
}

func (s *stubSnap) CreateTransaction(o midtransSvc.SnapOrder) (*midtransSvc.SnapResult, error) {
	s.orders = append(s.orders, o)
	return &midtransSvc.SnapResult{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}, nil
}

type stubVerifier struct {
	identity *authSvc.GoogleIdentity
}

func (s stubVerifier) Verify(token string) (*authSvc.GoogleIdentity, error) {
	if s.identity == nil || token != "valid-token" {
		return nil, authSvc.ErrInvalidGoogleToken
	}
	return s.identity, nil
}

type published struct {
	Event string
	Data  any
}

type capturePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *capturePublisher) Publish(event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event, data})
}

func (p *capturePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	order     *service.OrderService
	payment   *service.PaymentService
	notifier  *stubNotifier
	publisher *capturePublisher
	sapi      hewanModel.TipeHewanModel
	domba     hewanModel.TipeHewanModel
}

const serverKey = "server-key"

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	notifier := &stubNotifier{}
	pub := &capturePublisher{}

	order := service.NewOrderService(db, stubQR{}, emailSvc.NewDispatcher(db, notifier, 3), pub)
	n := 0
	order.DashCode = func() (string, error) {
		n++
		return fmt.Sprintf("QRB-TEST%02d", n), nil
	}

	kolektif := int64(3_500_000)
	sapi := hewanModel.TipeHewanModel{
		TipeHewanNama:          "Sapi",
		TipeHewanJenis:         hewanModel.JenisSapi,
		TipeHewanHarga:         25_000_000,
		TipeHewanHargaKolektif: &kolektif,
		TipeHewanTarget:        20,
	}
	require.NoError(t, db.Create(&sapi).Error)
	domba := hewanModel.TipeHewanModel{
		TipeHewanNama:   "Domba",
		TipeHewanJenis:  hewanModel.JenisDomba,
		TipeHewanHarga:  3_000_000,
		TipeHewanTarget: 200,
	}
	require.NoError(t, db.Create(&domba).Error)

	return &testEnv{
		db:        db,
		order:     order,
		payment:   service.NewPaymentService(db, serverKey, pub),
		notifier:  notifier,
		publisher: pub,
		sapi:      sapi,
		domba:     domba,
	}
}

func (e *testEnv) guestInput(nama, email string) service.CreateMudhohiInput {
	return service.CreateMudhohiInput{
		NamaPengqurban: nama,
		Email:          email,
		Phone:          "08123456789",
		TipeHewanID:    e.sapi.TipeHewanID,
		Quantity:       1,
		CaraBayar:      model.CaraBayarTransfer,
	}
}

func (e *testEnv) place(t *testing.T, in service.CreateMudhohiInput) *service.OrderResult {
	t.Helper()
	res, err := e.order.CreateMudhohi(context.Background(), in)
	require.NoError(t, err)
	return res
}

func (e *testEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

var errBoom = errors.New("boom")
