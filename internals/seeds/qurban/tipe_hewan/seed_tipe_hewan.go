package tipehewan

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qurban_backend/internals/features/qurban/hewan/model"
)

type TipeHewanSeed struct {
	Nama          string `json:"nama"`
	Jenis         string `json:"jenis"`
	Harga         int64  `json:"harga"`
	HargaKolektif *int64 `json:"harga_kolektif"`
	Target        int    `json:"target"`
	Keterangan    string `json:"keterangan"`
}

// SeedTipeHewanFromJSON: katalog tipe hewan. Nama yang sudah ada tidak ditimpa
// supaya harga yang diubah admin tetap.
func SeedTipeHewanFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Membaca file tipe hewan:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []TipeHewanSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	inserted := 0
	for _, in := range inputs {
		jenis := model.JenisHewan(strings.ToUpper(strings.TrimSpace(in.Jenis)))
		if !jenis.Valid() || strings.TrimSpace(in.Nama) == "" || in.Harga <= 0 {
			log.Printf("⚠️ Tipe hewan '%s' tidak valid, dilewati.", in.Nama)
			continue
		}
		row := model.TipeHewanModel{
			TipeHewanNama:          strings.TrimSpace(in.Nama),
			TipeHewanJenis:         jenis,
			TipeHewanHarga:         in.Harga,
			TipeHewanHargaKolektif: in.HargaKolektif,
			TipeHewanTarget:        in.Target,
		}
		if k := strings.TrimSpace(in.Keterangan); k != "" {
			row.TipeHewanKeterangan = &k
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tipe_hewan_nama"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return inserted, fmt.Errorf("insert tipe hewan %s: %w", in.Nama, res.Error)
		}
		if res.RowsAffected > 0 {
			inserted++
			log.Printf("✅ Tipe hewan '%s' ditambahkan", row.TipeHewanNama)
		}
	}
	return inserted, nil
}
