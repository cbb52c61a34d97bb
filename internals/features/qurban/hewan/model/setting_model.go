package model

import "time"

const (
	SettingItemsPerGroup = "itemsPerGroup"
	DefaultItemsPerGroup = 50
)

type SettingModel struct {
	SettingKey   string    `gorm:"column:setting_key;type:varchar(100);primaryKey" json:"setting_key"`
	SettingValue string    `gorm:"column:setting_value;type:text;not null" json:"setting_value"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SettingModel) TableName() string {
	return "settings"
}
