package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	emailModel "qurban_backend/internals/features/notifications/email/model"
	emailSvc "qurban_backend/internals/features/notifications/email/service"
	distribusiSvc "qurban_backend/internals/features/qurban/distribusi/service"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	kuponSvc "qurban_backend/internals/features/qurban/kupon/service"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	realtime "qurban_backend/internals/features/realtime/service"
)

var (
	ErrNotOrderOwner     = errors.New("Anda tidak berhak mengakses pesanan ini")
	ErrNoConfirmation    = errors.New("Pesanan ini tidak memiliki email konfirmasi")
	ErrResendRateLimited = errors.New("Terlalu banyak permintaan kirim ulang, coba lagi nanti")
)

// ResendConfirmation: antrekan ulang email konfirmasi terakhir lalu kirim.
// requester nil = admin.
func (s *OrderService) ResendConfirmation(ctx context.Context, mudhohiID uuid.UUID, requester *uuid.UUID) error {
	db := s.DB.WithContext(ctx)

	var m model.MudhohiModel
	if err := db.Select("mudhohi_id", "mudhohi_user_id").
		Where("mudhohi_id = ?", mudhohiID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMudhohiNotFound
		}
		return err
	}
	if requester != nil && *requester != m.MudhohiUserID {
		return ErrNotOrderOwner
	}

	last, err := emailSvc.LatestForAggregate(db, emailModel.KindOrderConfirmation, mudhohiID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoConfirmation
		}
		return err
	}
	payload, err := emailSvc.PayloadOf(last)
	if err != nil {
		return err
	}

	if s.Resend != nil {
		ok, err := s.Resend.Allow(ctx, payload.To)
		if err != nil {
			log.Printf("[ORDER] resend limiter error: %v", err)
		} else if !ok {
			return ErrResendRateLimited
		}
	}

	row, err := emailSvc.Requeue(db, last, s.Now())
	if err != nil {
		return err
	}
	if s.Outbox != nil {
		if err := s.Outbox.Deliver(ctx, row.OutboxID); err != nil {
			// tetap pending, cron akan mencoba lagi
			log.Printf("[ORDER] kirim ulang %s gagal: %v", mudhohiID, err)
		}
	}
	return nil
}

// DistributeKupon: mudhohi mengambil kupon & jatahnya.
func (s *OrderService) DistributeKupon(ctx context.Context, mudhohiID uuid.UUID) ([]kuponModel.KuponModel, error) {
	var out []kuponModel.KuponModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MudhohiModel{}).
			Where("mudhohi_id = ?", mudhohiID).
			Update("mudhohi_sudah_terima_kupon", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMudhohiNotFound
		}

		kupons, err := kuponSvc.DistributeForOrder(tx, mudhohiID)
		if err != nil {
			return err
		}
		out = kupons

		if err := distribusiSvc.MarkReceived(tx, mudhohiID, s.Now()); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tandai penerima: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Publisher != nil {
		s.Publisher.Publish(realtime.EventUpdateKupon, map[string]any{"mudhohi_id": mudhohiID})
		s.Publisher.Publish(realtime.EventUpdateMudhohi, map[string]any{"mudhohi_id": mudhohiID})
	}
	return out, nil
}
