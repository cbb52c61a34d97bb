package produk

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/distribusi/model"
	distribusiSvc "qurban_backend/internals/features/qurban/distribusi/service"
)

type ProdukSeed struct {
	Nama        string `json:"nama"`
	JenisHewan  string `json:"jenis_hewan"`
	JenisProduk string `json:"jenis_produk"`
}

// SeedProdukFromJSON: produk pilihan pengqurban (kaki, kepala, kulit, ...).
func SeedProdukFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file produk:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []ProdukSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	for _, in := range inputs {
		nama := strings.TrimSpace(in.Nama)
		if nama == "" {
			continue
		}
		jenisHewan := strings.ToUpper(strings.TrimSpace(in.JenisHewan))
		jenisProduk := model.JenisProduk(strings.ToUpper(strings.TrimSpace(in.JenisProduk)))
		if _, err := distribusiSvc.EnsureProduk(db, nama, jenisHewan, jenisProduk); err != nil {
			return fmt.Errorf("produk %s: %w", nama, err)
		}
	}
	log.Printf("✅ %d produk hewan siap", len(inputs))
	return nil
}
