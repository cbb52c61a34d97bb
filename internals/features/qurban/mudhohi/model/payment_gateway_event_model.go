package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentGatewayEventModel: log mentah notifikasi Midtrans (debug / replay).
type PaymentGatewayEventModel struct {
	GatewayEventID          uuid.UUID          `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`
	GatewayEventMudhohiID   *uuid.UUID         `gorm:"column:gateway_event_mudhohi_id;type:uuid;index" json:"gateway_event_mudhohi_id,omitempty"`
	GatewayEventOrderID     string             `gorm:"column:gateway_event_order_id;type:varchar(100);not null;index" json:"gateway_event_order_id"`
	GatewayEventTransaction *string            `gorm:"column:gateway_event_transaction_id;type:varchar(100);index" json:"gateway_event_transaction_id,omitempty"`
	GatewayEventType        string             `gorm:"column:gateway_event_type;type:varchar(50)" json:"gateway_event_type"`
	GatewayEventPayload     datatypes.JSON     `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`
	GatewayEventSignatureOK bool               `gorm:"column:gateway_event_signature_ok;not null;default:false" json:"gateway_event_signature_ok"`
	GatewayEventStatus      GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(20);not null" json:"gateway_event_status"`
	GatewayEventError       *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`
	CreatedAt               time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (e *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	return nil
}
