package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/mudhohi/model"
)

// ListFilter: filter daftar mudhohi admin.
type ListFilter struct {
	Status *model.PaymentStatus
	Query  string
	Tahun  int
	UserID *uuid.UUID
	Offset int
	Limit  int
}

func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Payment").
		Preload("Payment.Tipe").
		Preload("Penerima").
		Preload("Slots").
		Preload("Slots.Hewan").
		Preload("Kupon", func(db *gorm.DB) *gorm.DB { return db.Order("kupon_id ASC") })
}

// ListMudhohi: daftar order terbaru dulu, dengan pencarian nama/peruntukan/dash code/kode resi.
func ListMudhohi(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.MudhohiModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.MudhohiModel{})
	if f.Status != nil {
		q = q.Where("mudhohi_id IN (?)",
			db.Model(&model.PembayaranModel{}).Select("pembayaran_mudhohi_id").
				Where("pembayaran_status = ?", *f.Status))
	}
	if f.Tahun > 0 {
		q = q.Where("mudhohi_tahun = ?", f.Tahun)
	}
	if f.UserID != nil {
		q = q.Where("mudhohi_user_id = ?", *f.UserID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where(
			"LOWER(mudhohi_nama_pengqurban) LIKE ? OR LOWER(mudhohi_nama_peruntukan) LIKE ? OR LOWER(mudhohi_dash_code) LIKE ? OR mudhohi_id IN (?)",
			like, like, like,
			db.Model(&model.PembayaranModel{}).Select("pembayaran_mudhohi_id").
				Where("LOWER(pembayaran_kode_resi) LIKE ?", like),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var items []model.MudhohiModel
	if err := withDetail(q).
		Order("created_at DESC").
		Offset(f.Offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetMudhohi: detail satu order.
func GetMudhohi(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.MudhohiModel, error) {
	var m model.MudhohiModel
	if err := withDetail(db.WithContext(ctx)).
		Where("mudhohi_id = ?", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMudhohiNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CekStatus: cari order lewat dash code atau kode resi.
func CekStatus(ctx context.Context, db *gorm.DB, kode string) (*model.MudhohiModel, error) {
	kode = strings.TrimSpace(kode)
	if kode == "" {
		return nil, ErrMudhohiNotFound
	}
	var m model.MudhohiModel
	err := withDetail(db.WithContext(ctx)).
		Where("UPPER(mudhohi_dash_code) = ? OR mudhohi_id IN (?)",
			strings.ToUpper(kode),
			db.Model(&model.PembayaranModel{}).Select("pembayaran_mudhohi_id").
				Where("pembayaran_kode_resi = ?", kode)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMudhohiNotFound
		}
		return nil, err
	}
	return &m, nil
}

// SearchByHewanKode: order yang memegang slot di hewan dengan kode tsb.
func SearchByHewanKode(ctx context.Context, db *gorm.DB, kode string) ([]model.MudhohiModel, error) {
	kode = strings.TrimSpace(kode)
	if kode == "" {
		return []model.MudhohiModel{}, nil
	}
	sub := db.Table("mudhohi_hewan AS mh").
		Select("mh.mudhohi_hewan_mudhohi_id").
		Joins("JOIN hewan_qurban AS h ON h.hewan_id = mh.mudhohi_hewan_hewan_id").
		Where("UPPER(h.hewan_kode) LIKE ?", "%"+strings.ToUpper(kode)+"%")

	var items []model.MudhohiModel
	if err := withDetail(db.WithContext(ctx)).
		Where("mudhohi_id IN (?)", sub).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Stats: ringkasan dashboard.
type Stats struct {
	TotalMudhohi   int64                         `json:"total_mudhohi"`
	TotalHewan     int64                         `json:"total_hewan"`
	TotalAmount    int64                         `json:"total_amount"`
	TotalDibayar   int64                         `json:"total_dibayarkan"`
	SudahTerima    int64                         `json:"sudah_terima_kupon"`
	PerStatus      map[model.PaymentStatus]int64 `json:"per_status"`
	PerCaraBayar   map[model.CaraBayar]int64     `json:"per_cara_bayar"`
	KolektifOrders int64                         `json:"kolektif_orders"`
}

func GetStats(ctx context.Context, db *gorm.DB, tahun int) (*Stats, error) {
	db = db.WithContext(ctx)
	st := &Stats{
		PerStatus:    make(map[model.PaymentStatus]int64, len(model.AllPaymentStatuses)),
		PerCaraBayar: map[model.CaraBayar]int64{},
	}
	for _, s := range model.AllPaymentStatuses {
		st.PerStatus[s] = 0
	}

	mq := func() *gorm.DB {
		q := db.Model(&model.MudhohiModel{})
		if tahun > 0 {
			q = q.Where("mudhohi_tahun = ?", tahun)
		}
		return q
	}
	if err := mq().Count(&st.TotalMudhohi).Error; err != nil {
		return nil, err
	}
	if err := mq().Where("mudhohi_sudah_terima_kupon = ?", true).
		Count(&st.SudahTerima).Error; err != nil {
		return nil, err
	}

	pq := func() *gorm.DB {
		return db.Model(&model.PembayaranModel{}).
			Where("pembayaran_mudhohi_id IN (?)", mq().Select("mudhohi_id"))
	}

	var sums struct {
		Total    int64
		Dibayar  int64
		Hewan    int64
		Kolektif int64
	}
	if err := pq().Select(
		"COALESCE(SUM(pembayaran_total_amount),0) AS total, " +
			"COALESCE(SUM(pembayaran_dibayarkan),0) AS dibayar, " +
			"COALESCE(SUM(pembayaran_quantity),0) AS hewan, " +
			"COALESCE(SUM(CASE WHEN pembayaran_is_kolektif THEN 1 ELSE 0 END),0) AS kolektif").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	st.TotalAmount, st.TotalDibayar, st.TotalHewan, st.KolektifOrders = sums.Total, sums.Dibayar, sums.Hewan, sums.Kolektif

	var byStatus []struct {
		Status model.PaymentStatus
		N      int64
	}
	if err := pq().Select("pembayaran_status AS status, COUNT(*) AS n").
		Group("pembayaran_status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		st.PerStatus[r.Status] = r.N
	}

	var byCara []struct {
		Cara model.CaraBayar
		N    int64
	}
	if err := pq().Select("pembayaran_cara_bayar AS cara, COUNT(*) AS n").
		Group("pembayaran_cara_bayar").Scan(&byCara).Error; err != nil {
		return nil, err
	}
	for _, r := range byCara {
		st.PerCaraBayar[r.Cara] = r.N
	}
	return st, nil
}
