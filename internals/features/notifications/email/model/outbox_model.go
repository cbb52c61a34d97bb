package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxSent       OutboxStatus = "sent"
	OutboxFailed     OutboxStatus = "failed"
)

const KindOrderConfirmation = "order_confirmation"

// OutboxMessageModel: antrean notifikasi yang ditulis di transaksi yang sama dengan order.
type OutboxMessageModel struct {
	OutboxID            uuid.UUID      `gorm:"column:outbox_id;type:uuid;primaryKey" json:"outbox_id"`
	OutboxKind          string         `gorm:"column:outbox_kind;type:varchar(50);not null" json:"outbox_kind"`
	OutboxAggregateID   *uuid.UUID     `gorm:"column:outbox_aggregate_id;type:uuid;index" json:"outbox_aggregate_id,omitempty"`
	OutboxPayload       datatypes.JSON `gorm:"column:outbox_payload;not null" json:"outbox_payload"`
	OutboxStatus        OutboxStatus   `gorm:"column:outbox_status;type:varchar(20);not null;index:idx_outbox_due,priority:1" json:"outbox_status"`
	OutboxAttempts      int            `gorm:"column:outbox_attempts;not null;default:0" json:"outbox_attempts"`
	OutboxNextAttemptAt time.Time      `gorm:"column:outbox_next_attempt_at;not null;index:idx_outbox_due,priority:2" json:"outbox_next_attempt_at"`
	OutboxLastError     *string        `gorm:"column:outbox_last_error;type:text" json:"outbox_last_error,omitempty"`
	OutboxSentAt        *time.Time     `gorm:"column:outbox_sent_at" json:"outbox_sent_at,omitempty"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (OutboxMessageModel) TableName() string {
	return "outbox_messages"
}

func (m *OutboxMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.OutboxID == uuid.Nil {
		m.OutboxID = uuid.New()
	}
	if m.OutboxStatus == "" {
		m.OutboxStatus = OutboxPending
	}
	return nil
}
