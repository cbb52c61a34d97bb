package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qurban_backend/internals/features/qurban/distribusi/model"
)

var ErrInvalidSelectedProduk = errors.New("Some selected products don't match the animal type or are invalid.")

// MaxSelectedProduk: jatah pilihan pengqurban sapi.
const MaxSelectedProduk = 2

// BumpDistribusi: pastikan kategori ada lalu target & realisasi += 1.
func BumpDistribusi(tx *gorm.DB, kategori string) (*model.DistribusiModel, error) {
	seed := model.DistribusiModel{DistribusiKategori: kategori}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("upsert distribusi %s: %w", kategori, err)
	}
	if err := tx.Model(&model.DistribusiModel{}).
		Where("distribusi_kategori = ?", kategori).
		Updates(map[string]any{
			"distribusi_target":    gorm.Expr("distribusi_target + ?", 1),
			"distribusi_realisasi": gorm.Expr("distribusi_realisasi + ?", 1),
		}).Error; err != nil {
		return nil, fmt.Errorf("increment distribusi %s: %w", kategori, err)
	}
	var d model.DistribusiModel
	if err := tx.Where("distribusi_kategori = ?", kategori).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// EnsureProduk: ambil produk berdasarkan nama, buat kalau belum ada.
func EnsureProduk(tx *gorm.DB, nama, jenisHewan string, jenisProduk model.JenisProduk) (*model.ProdukHewanModel, error) {
	seed := model.ProdukHewanModel{
		ProdukNama:        nama,
		ProdukJenisHewan:  jenisHewan,
		ProdukJenisProduk: jenisProduk,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("upsert produk %s: %w", nama, err)
	}
	var p model.ProdukHewanModel
	if err := tx.Where("produk_nama = ?", nama).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateSelectedProduk: semua id harus produk milik jenis hewan tsb.
// Dikembalikan maksimal MaxSelectedProduk id sesuai urutan input.
func ValidateSelectedProduk(tx *gorm.DB, ids []int, jenisHewan string) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	uniq := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	var count int64
	if err := tx.Model(&model.ProdukHewanModel{}).
		Where("produk_id IN ? AND produk_jenis_hewan = ?", ids, jenisHewan).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(uniq) || len(uniq) != len(ids) {
		return nil, ErrInvalidSelectedProduk
	}
	if len(ids) > MaxSelectedProduk {
		ids = ids[:MaxSelectedProduk]
	}
	return ids, nil
}

// Entitlement: satu baris jatah produk untuk penerima.
// ProdukID > 0 = produk sudah ada (pilihan), selain itu di-ensure lewat nama.
type Entitlement struct {
	ProdukID    int
	ProdukNama  string
	JenisHewan  string
	JenisProduk model.JenisProduk
	JumlahPaket int
	BumpTarget  bool
}

// RecordEntitlements: buat log distribusi + rincian produk untuk penerima.
func RecordEntitlements(tx *gorm.DB, penerimaID uuid.UUID, items []Entitlement) (*model.LogDistribusiModel, error) {
	entry := model.LogDistribusiModel{LogDistribusiPenerimaID: penerimaID}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("buat log distribusi: %w", err)
	}

	for _, e := range items {
		produkID := e.ProdukID
		if produkID == 0 {
			p, err := EnsureProduk(tx, e.ProdukNama, e.JenisHewan, e.JenisProduk)
			if err != nil {
				return nil, err
			}
			produkID = p.ProdukID
		}
		row := model.ProdukDiterimaModel{
			ProdukDiterimaLogID:       entry.LogDistribusiID,
			ProdukDiterimaProdukID:    produkID,
			ProdukDiterimaJumlahPaket: e.JumlahPaket,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("buat produk diterima: %w", err)
		}
		entry.Produk = append(entry.Produk, row)

		if e.BumpTarget {
			if err := tx.Model(&model.ProdukHewanModel{}).
				Where("produk_id = ?", produkID).
				Update("produk_target_paket", gorm.Expr("produk_target_paket + ?", e.JumlahPaket)).Error; err != nil {
				return nil, fmt.Errorf("update target paket produk %d: %w", produkID, err)
			}
		}
	}
	return &entry, nil
}

// MarkReceived: penerima order sudah mengambil jatah.
func MarkReceived(tx *gorm.DB, mudhohiID uuid.UUID, at time.Time) error {
	res := tx.Model(&model.PenerimaModel{}).
		Where("penerima_mudhohi_id = ?", mudhohiID).
		Updates(map[string]any{
			"penerima_sudah_menerima": true,
			"penerima_waktu_terima":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func ListProduk(db *gorm.DB, jenisHewan string) ([]model.ProdukHewanModel, error) {
	q := db.Model(&model.ProdukHewanModel{})
	if jenisHewan != "" {
		q = q.Where("produk_jenis_hewan = ?", jenisHewan)
	}
	var items []model.ProdukHewanModel
	if err := q.Order("produk_jenis_hewan ASC, produk_nama ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func ListDistribusi(db *gorm.DB) ([]model.DistribusiModel, error) {
	var items []model.DistribusiModel
	if err := db.Order("distribusi_kategori ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
