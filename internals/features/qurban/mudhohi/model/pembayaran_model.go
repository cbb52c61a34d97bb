package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
)

// PembayaranModel: tepat satu per mudhohi.
type PembayaranModel struct {
	PembayaranID              uuid.UUID     `gorm:"column:pembayaran_id;type:uuid;primaryKey" json:"pembayaran_id"`
	PembayaranMudhohiID       uuid.UUID     `gorm:"column:pembayaran_mudhohi_id;type:uuid;not null;uniqueIndex:uq_pembayaran_mudhohi" json:"pembayaran_mudhohi_id"`
	PembayaranTipeID          int           `gorm:"column:pembayaran_tipe_id;not null" json:"pembayaran_tipe_id"`
	PembayaranQuantity        int           `gorm:"column:pembayaran_quantity;not null" json:"pembayaran_quantity"`
	PembayaranIsKolektif      bool          `gorm:"column:pembayaran_is_kolektif;not null;default:false" json:"pembayaran_is_kolektif"`
	PembayaranTotalAmount     int64         `gorm:"column:pembayaran_total_amount;not null" json:"pembayaran_total_amount"`
	PembayaranCaraBayar       CaraBayar     `gorm:"column:pembayaran_cara_bayar;type:varchar(20);not null" json:"pembayaran_cara_bayar"`
	PembayaranStatus          PaymentStatus `gorm:"column:pembayaran_status;type:varchar(30);not null;index" json:"pembayaran_status"`
	PembayaranDibayarkan      int64         `gorm:"column:pembayaran_dibayarkan;not null;default:0" json:"pembayaran_dibayarkan"`
	PembayaranURLTandaBukti   *string       `gorm:"column:pembayaran_url_tanda_bukti;type:text" json:"pembayaran_url_tanda_bukti,omitempty"`
	PembayaranKodeResi        *string       `gorm:"column:pembayaran_kode_resi;type:varchar(100);uniqueIndex:uq_pembayaran_kode_resi" json:"pembayaran_kode_resi,omitempty"`
	PembayaranSnapToken       *string       `gorm:"column:pembayaran_snap_token;type:varchar(100)" json:"pembayaran_snap_token,omitempty"`
	PembayaranSnapRedirectURL *string       `gorm:"column:pembayaran_snap_redirect_url;type:text" json:"pembayaran_snap_redirect_url,omitempty"`
	CreatedAt                 time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Tipe *hewanModel.TipeHewanModel `gorm:"foreignKey:PembayaranTipeID;references:TipeHewanID" json:"tipe,omitempty"`
}

func (PembayaranModel) TableName() string {
	return "pembayaran"
}

func (p *PembayaranModel) BeforeCreate(tx *gorm.DB) error {
	if p.PembayaranID == uuid.Nil {
		p.PembayaranID = uuid.New()
	}
	return nil
}

// Sisa: kekurangan bayar (tidak negatif).
func (p PembayaranModel) Sisa() int64 {
	if d := p.PembayaranTotalAmount - p.PembayaranDibayarkan; d > 0 {
		return d
	}
	return 0
}
