// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "qurban_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// Semua fungsi lookup mengembalikan (nil, nil) kalau tidak ditemukan.

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return notFoundAsNil(&user, err)
	}
	return &user, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	if email == "" {
		return nil, nil
	}
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return notFoundAsNil(&user, err)
	}
	return &user, nil
}

func FindUserByName(db *gorm.DB, name string) (*userModel.UserModel, error) {
	if name == "" {
		return nil, nil
	}
	var user userModel.UserModel
	if err := db.Where("name = ?", name).Order("created_at ASC").First(&user).Error; err != nil {
		return notFoundAsNil(&user, err)
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserFields(db *gorm.DB, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Updates(fields).Error
}

/* ====================== ACCOUNT (OAuth) ====================== */

func FindAccount(db *gorm.DB, provider, providerAccountID string) (*userModel.AccountModel, error) {
	var acc userModel.AccountModel
	err := db.Where("account_provider = ? AND account_provider_account_id = ?", provider, providerAccountID).
		First(&acc).Error
	if err != nil {
		return notFoundAsNil(&acc, err)
	}
	return &acc, nil
}

func CreateAccount(db *gorm.DB, acc *userModel.AccountModel) error {
	return db.Create(acc).Error
}

func notFoundAsNil[T any](_ *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}
