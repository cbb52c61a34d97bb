package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserModel: pemesan qurban. Guest checkout tetap punya baris di sini
// dengan password placeholder (bcrypt).
type UserModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      *string   `gorm:"column:name;size:100" json:"name"`
	Email     *string   `gorm:"column:email;size:255;uniqueIndex:uq_users_email" json:"email"`
	Phone     *string   `gorm:"column:phone;size:30" json:"phone"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'user'" json:"role"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *UserModel) DisplayName() string {
	if u.Name != nil {
		return *u.Name
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
