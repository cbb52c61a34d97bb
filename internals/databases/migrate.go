package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	emailModel "qurban_backend/internals/features/notifications/email/model"
	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	mudhohiModel "qurban_backend/internals/features/qurban/mudhohi/model"
	userModel "qurban_backend/internals/features/users/user/model"
)

// Models: urutan mengikuti dependensi FK.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.AccountModel{},
		&hewanModel.TipeHewanModel{},
		&hewanModel.HewanQurbanModel{},
		&hewanModel.SettingModel{},
		&mudhohiModel.MudhohiModel{},
		&mudhohiModel.PembayaranModel{},
		&mudhohiModel.MudhohiHewanModel{},
		&mudhohiModel.PaymentGatewayEventModel{},
		&kuponModel.KuponModel{},
		&distribusiModel.DistribusiModel{},
		&distribusiModel.PenerimaModel{},
		&distribusiModel.ProdukHewanModel{},
		&distribusiModel.LogDistribusiModel{},
		&distribusiModel.ProdukDiterimaModel{},
		&emailModel.OutboxMessageModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("✅ Migrasi skema selesai.")
	return nil
}
