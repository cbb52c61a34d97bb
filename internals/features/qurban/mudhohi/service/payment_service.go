package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	midtransSvc "qurban_backend/internals/features/payment/midtrans/service"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	realtime "qurban_backend/internals/features/realtime/service"
)

var (
	ErrMudhohiNotFound   = errors.New("Data mudhohi tidak ditemukan")
	ErrEmptyPaymentPatch = errors.New("tidak ada perubahan pembayaran")
	ErrInvalidSignature  = errors.New("invalid signature")
)

// PaymentUpdate: patch pembayaran dari admin.
type PaymentUpdate struct {
	Status         *model.PaymentStatus
	Dibayarkan     *int64 // ditambahkan ke total yang sudah dibayar
	KodeResi       *string
	URLTandaBukti  *string
	IsVerification bool
}

type PaymentService struct {
	DB        *gorm.DB
	ServerKey string
	Publisher realtime.Publisher
}

func NewPaymentService(db *gorm.DB, serverKey string, pub realtime.Publisher) *PaymentService {
	return &PaymentService{DB: db, ServerKey: serverKey, Publisher: pub}
}

// nextStatus: verifikasi > status eksplisit LUNAS/BATAL > dari jumlah.
func nextStatus(cur model.PembayaranModel, upd PaymentUpdate, paid int64) model.PaymentStatus {
	switch {
	case upd.IsVerification:
		return model.PaymentMenungguKonfirmasi
	case upd.Status != nil && (*upd.Status == model.PaymentLunas || *upd.Status == model.PaymentBatal):
		return *upd.Status
	case upd.Dibayarkan != nil:
		return PaymentStatusFromAmount(paid, cur.PembayaranTotalAmount)
	case upd.Status != nil:
		return *upd.Status
	}
	return cur.PembayaranStatus
}

// UpdatePayment: ubah status / tambah dibayarkan secara atomik.
func (s *PaymentService) UpdatePayment(ctx context.Context, mudhohiID uuid.UUID, upd PaymentUpdate) (*model.PembayaranModel, error) {
	if upd.Status == nil && upd.Dibayarkan == nil && upd.KodeResi == nil && upd.URLTandaBukti == nil && !upd.IsVerification {
		return nil, ErrEmptyPaymentPatch
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	if upd.Dibayarkan != nil && *upd.Dibayarkan < 0 {
		return nil, ErrNegativeDibayarkan
	}

	var out model.PembayaranModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := applyPayment(tx, mudhohiID, upd)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(mudhohiID)
	return &out, nil
}

func applyPayment(tx *gorm.DB, mudhohiID uuid.UUID, upd PaymentUpdate) (*model.PembayaranModel, error) {
	var cur model.PembayaranModel
	if err := tx.Where("pembayaran_mudhohi_id = ?", mudhohiID).First(&cur).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMudhohiNotFound
		}
		return nil, err
	}

	paid := cur.PembayaranDibayarkan
	updates := map[string]any{}
	q := tx.Model(&model.PembayaranModel{}).Where("pembayaran_id = ?", cur.PembayaranID)
	if upd.Dibayarkan != nil && *upd.Dibayarkan > 0 {
		paid += *upd.Dibayarkan
		updates["pembayaran_dibayarkan"] = gorm.Expr("pembayaran_dibayarkan + ?", *upd.Dibayarkan)
		// CAS: tolak kalau ada update lain di antara baca dan tulis
		q = q.Where("pembayaran_dibayarkan = ?", cur.PembayaranDibayarkan)
	}
	status := nextStatus(cur, upd, paid)
	if status != cur.PembayaranStatus {
		updates["pembayaran_status"] = status
	}
	if upd.KodeResi != nil {
		updates["pembayaran_kode_resi"] = blankToNil(upd.KodeResi)
	}
	if upd.URLTandaBukti != nil {
		updates["pembayaran_url_tanda_bukti"] = blankToNil(upd.URLTandaBukti)
	}
	if len(updates) == 0 {
		return &cur, nil
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update pembayaran: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update pembayaran %s: %w", cur.PembayaranID, errPaymentConflict)
	}
	if err := tx.Where("pembayaran_id = ?", cur.PembayaranID).First(&cur).Error; err != nil {
		return nil, err
	}
	return &cur, nil
}

// paymentSettled: LUNAS atau dibayarkan sudah menutup total.
func paymentSettled(tx *gorm.DB, mudhohiID uuid.UUID) (bool, error) {
	var cur model.PembayaranModel
	if err := tx.Where("pembayaran_mudhohi_id = ?", mudhohiID).First(&cur).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrMudhohiNotFound
		}
		return false, err
	}
	return cur.PembayaranStatus == model.PaymentLunas ||
		(cur.PembayaranTotalAmount > 0 && cur.PembayaranDibayarkan >= cur.PembayaranTotalAmount), nil
}

var errPaymentConflict = errors.New("pembayaran diubah bersamaan, coba lagi")

/* =========================================================
   Midtrans webhook
========================================================= */

// WebhookResult: ringkasan pemrosesan notifikasi.
type WebhookResult struct {
	MudhohiID *uuid.UUID
	Status    model.GatewayEventStatus
	Payment   *model.PembayaranModel
}

// HandleMidtransNotification: verifikasi signature, log event, lalu terapkan ke pembayaran.
// Notifikasi dengan transaction_id yang sudah diproses diabaikan.
func (s *PaymentService) HandleMidtransNotification(ctx context.Context, raw []byte, n midtransSvc.Notification) (*WebhookResult, error) {
	sigOK := midtransSvc.VerifySignature(n, s.ServerKey)

	ev := model.PaymentGatewayEventModel{
		GatewayEventOrderID:     n.OrderID,
		GatewayEventType:        strings.ToLower(n.TransactionStatus),
		GatewayEventPayload:     datatypes.JSON(raw),
		GatewayEventSignatureOK: sigOK,
		GatewayEventStatus:      model.GatewayEventReceived,
	}
	if n.TransactionID != "" {
		tid := n.TransactionID
		ev.GatewayEventTransaction = &tid
	}

	if !sigOK {
		ev.GatewayEventStatus = model.GatewayEventFailed
		msg := ErrInvalidSignature.Error()
		ev.GatewayEventError = &msg
		if err := s.DB.WithContext(ctx).Create(&ev).Error; err != nil {
			log.Printf("[MIDTRANS] simpan event gagal: %v", err)
		}
		return nil, ErrInvalidSignature
	}

	out := &WebhookResult{Status: model.GatewayEventIgnored}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.MudhohiModel
		if err := tx.Where("mudhohi_dash_code = ?", n.OrderID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				msg := "order tidak dikenal"
				ev.GatewayEventStatus = model.GatewayEventIgnored
				ev.GatewayEventError = &msg
				return tx.Create(&ev).Error
			}
			return err
		}
		ev.GatewayEventMudhohiID = &m.MudhohiID
		out.MudhohiID = &m.MudhohiID

		action := midtransSvc.MapTransactionStatus(n.TransactionStatus, n.FraudStatus)
		if action == midtransSvc.ActionPaid && ev.GatewayEventTransaction != nil {
			var dup int64
			if err := tx.Model(&model.PaymentGatewayEventModel{}).
				Where("gateway_event_transaction_id = ? AND gateway_event_status = ? AND gateway_event_type IN ?",
					*ev.GatewayEventTransaction, model.GatewayEventProcessed, []string{"capture", "settlement"}).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				action = midtransSvc.ActionIgnore
			}
		}

		if action == midtransSvc.ActionPending || action == midtransSvc.ActionCancel {
			settled, err := paymentSettled(tx, m.MudhohiID)
			if err != nil {
				return err
			}
			if settled {
				// notifikasi telat: order lunas tidak boleh mundur ke pending/batal
				msg := "pembayaran sudah lunas"
				ev.GatewayEventStatus = model.GatewayEventIgnored
				ev.GatewayEventError = &msg
				return tx.Create(&ev).Error
			}
		}

		var upd PaymentUpdate
		switch action {
		case midtransSvc.ActionPaid:
			amt, err := n.GrossAmountInt()
			if err != nil {
				return fmt.Errorf("gross_amount tidak valid: %w", err)
			}
			upd.Dibayarkan = &amt
		case midtransSvc.ActionPending:
			upd.IsVerification = true
		case midtransSvc.ActionCancel:
			st := model.PaymentBatal
			upd.Status = &st
		default:
			ev.GatewayEventStatus = model.GatewayEventIgnored
			return tx.Create(&ev).Error
		}

		p, err := applyPayment(tx, m.MudhohiID, upd)
		if err != nil {
			return err
		}
		out.Payment = p
		ev.GatewayEventStatus = model.GatewayEventProcessed
		out.Status = model.GatewayEventProcessed
		return tx.Create(&ev).Error
	})
	if err != nil {
		log.Printf("[MIDTRANS] notifikasi %s gagal: %v", n.OrderID, err)
		return nil, err
	}
	if out.MudhohiID != nil && out.Status == model.GatewayEventProcessed {
		log.Printf("[MIDTRANS] %s %s -> %s", n.OrderID, n.TransactionStatus, out.Payment.PembayaranStatus)
		s.publish(*out.MudhohiID)
	}
	return out, nil
}

func (s *PaymentService) publish(mudhohiID uuid.UUID) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(realtime.EventUpdateMudhohi, map[string]any{"mudhohi_id": mudhohiID})
}
