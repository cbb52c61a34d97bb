package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ProviderGoogle = "google"

// AccountModel: tautan OAuth (provider + provider_account_id) ke satu user.
type AccountModel struct {
	AccountID                uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	AccountUserID            uuid.UUID `gorm:"column:account_user_id;type:uuid;not null;index" json:"account_user_id"`
	AccountProvider          string    `gorm:"column:account_provider;type:varchar(40);not null;uniqueIndex:uq_accounts_provider_account" json:"account_provider"`
	AccountProviderAccountID string    `gorm:"column:account_provider_account_id;type:varchar(255);not null;uniqueIndex:uq_accounts_provider_account" json:"account_provider_account_id"`
	CreatedAt                time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

func (a *AccountModel) BeforeCreate(tx *gorm.DB) error {
	if a.AccountID == uuid.Nil {
		a.AccountID = uuid.New()
	}
	return nil
}
