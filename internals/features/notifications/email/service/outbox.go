package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"qurban_backend/internals/features/notifications/email/model"
)

var ErrOutboxNotClaimable = errors.New("pesan outbox sedang/sudah diproses")

// EnqueueOrderConfirmation: tulis pesan di tx order; dikirim setelah commit.
func EnqueueOrderConfirmation(tx *gorm.DB, aggregateID uuid.UUID, msg OrderConfirmation, now time.Time) (*model.OutboxMessageModel, error) {
	raw, err := sonic.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode outbox payload: %w", err)
	}
	row := model.OutboxMessageModel{
		OutboxKind:          model.KindOrderConfirmation,
		OutboxAggregateID:   &aggregateID,
		OutboxPayload:       datatypes.JSON(raw),
		OutboxStatus:        model.OutboxPending,
		OutboxNextAttemptAt: now,
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("enqueue outbox: %w", err)
	}
	return &row, nil
}

// Requeue: salin payload pesan lama sebagai pesan baru (kirim ulang).
func Requeue(db *gorm.DB, src *model.OutboxMessageModel, now time.Time) (*model.OutboxMessageModel, error) {
	row := model.OutboxMessageModel{
		OutboxKind:          src.OutboxKind,
		OutboxAggregateID:   src.OutboxAggregateID,
		OutboxPayload:       src.OutboxPayload,
		OutboxStatus:        model.OutboxPending,
		OutboxNextAttemptAt: now,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("requeue outbox: %w", err)
	}
	return &row, nil
}

// PayloadOf: decode payload konfirmasi order.
func PayloadOf(msg *model.OutboxMessageModel) (*OrderConfirmation, error) {
	var payload OrderConfirmation
	if err := sonic.Unmarshal(msg.OutboxPayload, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &payload, nil
}

// Dispatcher: konsumen at-least-once untuk outbox_messages.
type Dispatcher struct {
	DB          *gorm.DB
	Notifier    Notifier
	MaxAttempts int
	BaseBackoff time.Duration
	StaleAfter  time.Duration
	Now         func() time.Time
}

func NewDispatcher(db *gorm.DB, notifier Notifier, maxAttempts int) *Dispatcher {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Dispatcher{
		DB:          db,
		Notifier:    notifier,
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Minute,
		StaleAfter:  10 * time.Minute,
		Now:         time.Now,
	}
}

// Backoff: BaseBackoff * 2^(attempts-1), maksimal 6 jam.
func (d *Dispatcher) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := d.BaseBackoff
	for i := 1; i < attempts && delay < 6*time.Hour; i++ {
		delay *= 2
	}
	if delay > 6*time.Hour {
		delay = 6 * time.Hour
	}
	return delay
}

// Deliver: kirim satu pesan sekarang juga (dipanggil setelah commit).
func (d *Dispatcher) Deliver(ctx context.Context, id uuid.UUID) error {
	msg, err := d.claim(ctx, id)
	if err != nil {
		return err
	}
	return d.process(ctx, msg)
}

// ProcessDue: proses pesan yang jatuh tempo; return jumlah yang terkirim.
func (d *Dispatcher) ProcessDue(ctx context.Context, limit int) (int, error) {
	now := d.Now()
	var ids []uuid.UUID
	if err := d.DB.WithContext(ctx).Model(&model.OutboxMessageModel{}).
		Where("(outbox_status = ? AND outbox_next_attempt_at <= ?) OR (outbox_status = ? AND updated_at <= ?)",
			model.OutboxPending, now, model.OutboxProcessing, now.Add(-d.StaleAfter)).
		Order("outbox_next_attempt_at ASC").
		Limit(limit).
		Pluck("outbox_id", &ids).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		err := d.Deliver(ctx, id)
		switch {
		case err == nil:
			sent++
		case errors.Is(err, ErrOutboxNotClaimable):
		default:
			log.Printf("[OUTBOX] %s gagal: %v", id, err)
		}
	}
	return sent, nil
}

func (d *Dispatcher) claim(ctx context.Context, id uuid.UUID) (*model.OutboxMessageModel, error) {
	db := d.DB.WithContext(ctx)
	var msg model.OutboxMessageModel
	if err := db.First(&msg, "outbox_id = ?", id).Error; err != nil {
		return nil, err
	}
	now := d.Now()
	switch msg.OutboxStatus {
	case model.OutboxPending:
	case model.OutboxProcessing:
		if msg.UpdatedAt.After(now.Add(-d.StaleAfter)) {
			return nil, ErrOutboxNotClaimable
		}
	default:
		return nil, ErrOutboxNotClaimable
	}

	res := db.Model(&model.OutboxMessageModel{}).
		Where("outbox_id = ? AND outbox_status = ? AND outbox_attempts = ?", id, msg.OutboxStatus, msg.OutboxAttempts).
		Updates(map[string]any{
			"outbox_status": model.OutboxProcessing,
			"updated_at":    now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOutboxNotClaimable
	}
	msg.OutboxStatus = model.OutboxProcessing
	return &msg, nil
}

func (d *Dispatcher) process(ctx context.Context, msg *model.OutboxMessageModel) error {
	sendErr := d.send(ctx, msg)
	db := d.DB.WithContext(context.WithoutCancel(ctx))
	now := d.Now()
	attempts := msg.OutboxAttempts + 1

	if sendErr == nil {
		return db.Model(&model.OutboxMessageModel{}).
			Where("outbox_id = ?", msg.OutboxID).
			Updates(map[string]any{
				"outbox_status":     model.OutboxSent,
				"outbox_attempts":   attempts,
				"outbox_sent_at":    now,
				"outbox_last_error": nil,
				"updated_at":        now,
			}).Error
	}

	status := model.OutboxPending
	if attempts >= d.MaxAttempts {
		status = model.OutboxFailed
	}
	errText := sendErr.Error()
	if err := db.Model(&model.OutboxMessageModel{}).
		Where("outbox_id = ?", msg.OutboxID).
		Updates(map[string]any{
			"outbox_status":          status,
			"outbox_attempts":        attempts,
			"outbox_next_attempt_at": now.Add(d.Backoff(attempts)),
			"outbox_last_error":      errText,
			"updated_at":             now,
		}).Error; err != nil {
		log.Printf("[OUTBOX] gagal update status %s: %v", msg.OutboxID, err)
	}
	if status == model.OutboxFailed {
		log.Printf("[OUTBOX] %s menyerah setelah %d percobaan: %s", msg.OutboxID, attempts, errText)
	}
	return sendErr
}

func (d *Dispatcher) send(ctx context.Context, msg *model.OutboxMessageModel) error {
	switch msg.OutboxKind {
	case model.KindOrderConfirmation:
		payload, err := PayloadOf(msg)
		if err != nil {
			return err
		}
		return d.Notifier.SendOrderConfirmation(ctx, *payload)
	default:
		return fmt.Errorf("outbox kind tidak dikenal: %s", msg.OutboxKind)
	}
}

// LatestForAggregate: pesan outbox terakhir milik satu order.
func LatestForAggregate(db *gorm.DB, kind string, aggregateID uuid.UUID) (*model.OutboxMessageModel, error) {
	var msg model.OutboxMessageModel
	if err := db.Where("outbox_kind = ? AND outbox_aggregate_id = ?", kind, aggregateID).
		Order("created_at DESC").
		First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
