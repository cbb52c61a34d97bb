package seeds

import (
	"fmt"
	"log"
	"path/filepath"

	"gorm.io/gorm"

	produk "qurban_backend/internals/seeds/qurban/produk"
	tipehewan "qurban_backend/internals/seeds/qurban/tipe_hewan"
	users "qurban_backend/internals/seeds/users/auth"
)

// RunAllSeeds: dir = root folder seeds (default "internals/seeds").
// Urutan: user → tipe hewan → produk.
func RunAllSeeds(db *gorm.DB, dir string) error {
	if dir == "" {
		dir = "internals/seeds"
	}

	//* User
	if err := users.SeedUsersFromJSON(db, filepath.Join(dir, "users/auth/data_users.json")); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	//* Qurban
	n, err := tipehewan.SeedTipeHewanFromJSON(db, filepath.Join(dir, "qurban/tipe_hewan/data_tipe_hewan.json"))
	if err != nil {
		return fmt.Errorf("seed tipe hewan: %w", err)
	}
	if err := produk.SeedProdukFromJSON(db, filepath.Join(dir, "qurban/produk/data_produk.json")); err != nil {
		return fmt.Errorf("seed produk: %w", err)
	}

	log.Printf("🌱 Seed selesai (%d tipe hewan baru)", n)
	return nil
}
