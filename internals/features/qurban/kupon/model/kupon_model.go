package model

import (
	"time"

	"github.com/google/uuid"
)

type KuponStatus string

const (
	KuponAvailable   KuponStatus = "AVAILABLE"
	KuponDistributed KuponStatus = "DISTRIBUTED"
	KuponReturned    KuponStatus = "RETURNED"
)

// KuponPerOrder: jumlah kupon daging untuk setiap order.
const KuponPerOrder = 2

// KuponModel: kupon fisik bernomor; KuponMudhohiID diisi saat diklaim order.
type KuponModel struct {
	KuponID        int64       `gorm:"column:kupon_id;primaryKey;autoIncrement" json:"kupon_id"`
	KuponStatus    KuponStatus `gorm:"column:kupon_status;type:varchar(20);not null;default:'AVAILABLE';index:idx_kupon_status" json:"kupon_status"`
	KuponMudhohiID *uuid.UUID  `gorm:"column:kupon_mudhohi_id;type:uuid;index:idx_kupon_mudhohi" json:"kupon_mudhohi_id,omitempty"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (KuponModel) TableName() string {
	return "kupon"
}
