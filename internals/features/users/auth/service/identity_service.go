package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authHelper "qurban_backend/internals/features/users/auth/helper"
	authRepo "qurban_backend/internals/features/users/auth/repository"
	userModel "qurban_backend/internals/features/users/user/model"
)

var ErrIdentityUnresolved = errors.New("Gagal membuat atau menemukan user.")

type IdentityInput struct {
	UserID            *uuid.UUID
	AccountProvider   string
	AccountProviderID string
	Email             string
	Name              string
	Phone             string
}

func (in IdentityInput) hasOAuth() bool {
	return in.AccountProvider != "" && in.AccountProviderID != ""
}

type IdentityResult struct {
	User      *userModel.UserModel
	IsNewUser bool
}

// ResolveIdentity mencari atau membuat tepat satu user, urutan prioritas:
// user id → akun OAuth → email → nama. Harus dipanggil dengan tx order.
func ResolveIdentity(tx *gorm.DB, in IdentityInput) (*IdentityResult, error) {
	in.Email = authHelper.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	var (
		user *userModel.UserModel
		err  error
	)

	// 1) user login
	if in.UserID != nil && *in.UserID != uuid.Nil {
		if user, err = authRepo.FindUserByID(tx, *in.UserID); err != nil {
			return nil, fmt.Errorf("lookup user id: %w", err)
		}
	}

	// 2) akun OAuth yang sudah tertaut → sinkronkan kontak dari provider
	if user == nil && in.hasOAuth() {
		acc, err := authRepo.FindAccount(tx, in.AccountProvider, in.AccountProviderID)
		if err != nil {
			return nil, fmt.Errorf("lookup account: %w", err)
		}
		if acc != nil {
			if user, err = authRepo.FindUserByID(tx, acc.AccountUserID); err != nil {
				return nil, fmt.Errorf("lookup account user: %w", err)
			}
			if user != nil {
				if err := syncFromProvider(tx, user, in); err != nil {
					return nil, err
				}
			}
		}
	}

	// 3) guest / manual: email dulu, baru nama
	if user == nil {
		if user, err = authRepo.FindUserByEmail(tx, in.Email); err != nil {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
	}
	if user == nil {
		if user, err = authRepo.FindUserByName(tx, in.Name); err != nil {
			return nil, fmt.Errorf("lookup name: %w", err)
		}
	}

	// 4) ketemu → merge kontak + tautkan OAuth
	if user != nil {
		if err := mergeContact(tx, user, in); err != nil {
			return nil, err
		}
		if in.hasOAuth() {
			if err := ensureAccountLink(tx, user.ID, in); err != nil {
				return nil, err
			}
		}
		return &IdentityResult{User: user}, nil
	}

	// 5) user baru
	created, err := createUser(tx, in)
	if err != nil {
		return nil, err
	}
	if created.ID == uuid.Nil {
		return nil, ErrIdentityUnresolved
	}
	return &IdentityResult{User: created, IsNewUser: true}, nil
}

func syncFromProvider(tx *gorm.DB, user *userModel.UserModel, in IdentityInput) error {
	fields := map[string]any{}
	if in.Email != "" {
		fields["email"] = in.Email
		user.Email = strPtr(in.Email)
	}
	if in.Name != "" {
		fields["name"] = in.Name
		user.Name = strPtr(in.Name)
	}
	if in.Phone != "" {
		fields["phone"] = in.Phone
		user.Phone = strPtr(in.Phone)
	}
	if err := authRepo.UpdateUserFields(tx, user.ID, fields); err != nil {
		return fmt.Errorf("sync provider user: %w", err)
	}
	return nil
}

// mergeContact: email & phone ditimpa kalau diisi, nama hanya kalau masih NULL.
func mergeContact(tx *gorm.DB, user *userModel.UserModel, in IdentityInput) error {
	fields := map[string]any{}
	if in.Email != "" && (user.Email == nil || *user.Email != in.Email) {
		fields["email"] = in.Email
		user.Email = strPtr(in.Email)
	}
	if in.Phone != "" && (user.Phone == nil || *user.Phone != in.Phone) {
		fields["phone"] = in.Phone
		user.Phone = strPtr(in.Phone)
	}
	if user.Name == nil && in.Name != "" {
		fields["name"] = in.Name
		user.Name = strPtr(in.Name)
	}
	if err := authRepo.UpdateUserFields(tx, user.ID, fields); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func ensureAccountLink(tx *gorm.DB, userID uuid.UUID, in IdentityInput) error {
	existing, err := authRepo.FindAccount(tx, in.AccountProvider, in.AccountProviderID)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil
	}
	if err := authRepo.CreateAccount(tx, &userModel.AccountModel{
		AccountUserID:            userID,
		AccountProvider:          in.AccountProvider,
		AccountProviderAccountID: in.AccountProviderID,
	}); err != nil {
		return fmt.Errorf("link account: %w", err)
	}
	return nil
}

func createUser(tx *gorm.DB, in IdentityInput) (*userModel.UserModel, error) {
	hash, err := authHelper.PlaceholderPassword()
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}
	u := &userModel.UserModel{
		Name:     optStr(in.Name),
		Email:    optStr(in.Email),
		Phone:    optStr(in.Phone),
		Password: hash,
		Role:     userModel.RoleUser,
		IsActive: true,
	}
	if err := authRepo.CreateUser(tx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if in.hasOAuth() {
		if err := authRepo.CreateAccount(tx, &userModel.AccountModel{
			AccountUserID:            u.ID,
			AccountProvider:          in.AccountProvider,
			AccountProviderAccountID: in.AccountProviderID,
		}); err != nil {
			return nil, fmt.Errorf("link account: %w", err)
		}
	}
	return u, nil
}

func strPtr(s string) *string { return &s }

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
